package readiness

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFlagTransitionsAfterDelay(t *testing.T) {
	f := NewDataLoad()
	assert.Equal(t, Loading, f.State())

	f.Start(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.Wait(ctx))
	assert.Equal(t, Ready, f.State())
	assert.True(t, f.Final())
}

func TestFlagZeroDelayTransitionsImmediately(t *testing.T) {
	f := NewConnection()
	f.Start(0)
	assert.Equal(t, Connected, f.State())
}

func TestFlagStopPreventsTransition(t *testing.T) {
	f := NewConnection()
	f.Start(20 * time.Millisecond)

	assert.True(t, f.Stop(), "pending timer should be cancelled")
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, Connecting, f.State())
	select {
	case <-f.Done():
		t.Fatal("Done closed after Stop")
	default:
	}
}

func TestFlagNeverGoesBack(t *testing.T) {
	f := NewDataLoad()
	f.Start(0)
	f.Start(0)
	f.Stop()
	f.Start(0)
	assert.Equal(t, Ready, f.State())
	assert.False(t, f.Stop())
}

func TestFlagStartAfterStopIsNoop(t *testing.T) {
	f := NewDataLoad()
	f.Stop()
	f.Start(0)
	assert.Equal(t, Loading, f.State())
}

func TestOnChangeNotifiedOnce(t *testing.T) {
	f := NewDataLoad()
	var calls atomic.Int32
	got := make(chan State, 2)
	f.OnChange(func(s State) {
		calls.Add(1)
		got <- s
	})

	f.Start(5 * time.Millisecond)
	select {
	case s := <-got:
		assert.Equal(t, Ready, s)
	case <-time.After(time.Second):
		t.Fatal("subscriber not notified")
	}
	f.Start(0)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOnChangeAfterTransitionRunsImmediately(t *testing.T) {
	f := NewConnection()
	f.Start(0)

	var got State
	f.OnChange(func(s State) { got = s })
	assert.Equal(t, Connected, got)
}

func TestOnChangeAfterStopNeverRuns(t *testing.T) {
	f := NewConnection()
	f.Start(5 * time.Millisecond)
	f.Stop()

	called := false
	f.OnChange(func(State) { called = true })
	time.Sleep(20 * time.Millisecond)
	assert.False(t, called)
}

func TestWaitHonorsContext(t *testing.T) {
	f := NewDataLoad()
	f.Start(time.Hour)
	defer f.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.Wait(ctx), context.DeadlineExceeded)
}

func TestName(t *testing.T) {
	assert.Equal(t, "data", NewDataLoad().Name())
	assert.Equal(t, "connection", NewConnection().Name())
}
