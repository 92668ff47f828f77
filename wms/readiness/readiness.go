// Package readiness simulates the delayed status changes of a mounted
// warehouse view: initial data finishing to load and the real-time feed
// reporting connected. Each is a one-way Flag armed with a fixed delay and
// cancelled when the view is torn down.
package readiness

import (
	"context"
	"sync"
	"time"
)

// State is the value of a Flag.
type State string

const (
	Loading    State = "loading"
	Ready      State = "ready"
	Connecting State = "connecting"
	Connected  State = "connected"
)

// Flag moves once from its initial state to its final state after a delay.
// It never moves back and it never moves after Stop.
type Flag struct {
	name    string
	initial State
	final   State

	mu          sync.Mutex
	state       State
	timer       *time.Timer
	started     bool
	stopped     bool
	subscribers []func(State)
	done        chan struct{}
}

// NewFlag returns a flag in state initial.
func NewFlag(name string, initial, final State) *Flag {
	return &Flag{
		name:    name,
		initial: initial,
		final:   final,
		state:   initial,
		done:    make(chan struct{}),
	}
}

// NewDataLoad returns a loading → ready flag.
func NewDataLoad() *Flag {
	return NewFlag("data", Loading, Ready)
}

// NewConnection returns a connecting → connected flag.
func NewConnection() *Flag {
	return NewFlag("connection", Connecting, Connected)
}

// Name identifies the flag in logs and status payloads.
func (f *Flag) Name() string {
	return f.name
}

// Start arms the timer. Only the first call on a live flag has an effect.
// A delay <= 0 transitions immediately.
func (f *Flag) Start(delay time.Duration) {
	f.mu.Lock()
	if f.started || f.stopped {
		f.mu.Unlock()
		return
	}
	f.started = true
	if delay > 0 {
		f.timer = time.AfterFunc(delay, f.fire)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	f.fire()
}

func (f *Flag) fire() {
	f.mu.Lock()
	if f.stopped || f.state == f.final {
		f.mu.Unlock()
		return
	}
	f.state = f.final
	subs := f.subscribers
	f.subscribers = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range subs {
		fn(f.final)
	}
}

// Stop cancels a pending transition. Once Stop returns the state is frozen.
// It reports whether a pending transition was cancelled.
func (f *Flag) Stop() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return false
	}
	f.stopped = true
	f.subscribers = nil
	if f.timer != nil {
		return f.timer.Stop()
	}
	return false
}

// State returns the current state.
func (f *Flag) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Final reports whether the flag has transitioned.
func (f *Flag) Final() bool {
	return f.State() == f.final
}

// OnChange registers fn to run once with the final state. If the flag has
// already transitioned fn runs immediately; if it was stopped first fn never runs.
func (f *Flag) OnChange(fn func(State)) {
	f.mu.Lock()
	if f.state == f.final {
		f.mu.Unlock()
		fn(f.final)
		return
	}
	if !f.stopped {
		f.subscribers = append(f.subscribers, fn)
	}
	f.mu.Unlock()
}

// Done is closed when the flag transitions. It stays open if the flag is
// stopped first.
func (f *Flag) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the flag transitions or ctx is done.
func (f *Flag) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
