// Package persona models who is looking at the warehouse module and which
// persona-specific defaults may be overlaid on shared view state.
package persona

import (
	"context"
	"strings"

	"github.com/teranos/wmsnav/errors"
)

// Persona is a back-office user profile.
type Persona string

const (
	Comerciante Persona = "comerciante"
	Operador    Persona = "operador"
)

// Default is used when client storage holds no usable persona.
const Default = Comerciante

// StorageKey is the client storage key holding the selected persona.
const StorageKey = "selectedPersona"

// All returns the supported personas.
func All() []Persona {
	return []Persona{Comerciante, Operador}
}

// Valid reports whether p is a supported persona.
func (p Persona) Valid() bool {
	return p == Comerciante || p == Operador
}

func (p Persona) String() string {
	return string(p)
}

// Parse accepts a persona name in any case with surrounding whitespace.
func Parse(s string) (Persona, error) {
	p := Persona(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", errors.Wrapf(errors.ErrUnknownPersona, "%q", s)
	}
	return p, nil
}

// Store reads client-side key/value storage.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// LoadSelected reads the selected persona once from store. Absent or
// unparseable values yield Default. A storage failure also yields Default,
// together with the error so the caller can log it.
func LoadSelected(ctx context.Context, store Store) (Persona, error) {
	if store == nil {
		return Default, nil
	}
	raw, ok, err := store.Get(ctx, StorageKey)
	if err != nil {
		return Default, errors.Wrap(err, "read selected persona")
	}
	if !ok {
		return Default, nil
	}
	p, err := Parse(raw)
	if err != nil {
		return Default, nil
	}
	return p, nil
}
