package action

import (
	"errors"
	"fmt"
)

// Keycode is the numeric code the output sink understands for a key
type Keycode uint8

// ErrUnknownKey is returned when a key name has no code on the output sink
var ErrUnknownKey = errors.New("no keycode for key")

// KeycodeLookup maps a symbolic key name (an X keysym name such as
// "Control_L" or "slash") to a keycode.
type KeycodeLookup interface {
	Keycode(name string) (Keycode, error)
}

// Resolver memoizes key name lookups for its own lifetime. The keyboard
// mapping is assumed not to change while the process runs.
type Resolver struct {
	lookup KeycodeLookup
	cache  map[string]Keycode
}

// NewResolver creates a resolver backed by lookup
func NewResolver(lookup KeycodeLookup) *Resolver {
	return &Resolver{
		lookup: lookup,
		cache:  make(map[string]Keycode),
	}
}

// Resolve returns the keycode for name, consulting the cache first
func (r *Resolver) Resolve(name string) (Keycode, error) {
	if code, ok := r.cache[name]; ok {
		return code, nil
	}

	code, err := r.lookup.Keycode(name)
	if err != nil {
		if errors.Is(err, ErrUnknownKey) {
			return 0, err
		}
		return 0, fmt.Errorf("%w %q: %v", ErrUnknownKey, name, err)
	}
	if code == 0 {
		return 0, fmt.Errorf("%w %q", ErrUnknownKey, name)
	}

	r.cache[name] = code
	return code, nil
}

// ResolveAll resolves every key name referenced by spec
func (r *Resolver) ResolveAll(spec KeySpec) error {
	return Walk(spec, func(s KeySpec) error {
		switch s := s.(type) {
		case Key:
			_, err := r.Resolve(s.Name)
			return err
		case Chord:
			for _, name := range s.Names {
				if _, err := r.Resolve(name); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Len returns the number of cached lookups
func (r *Resolver) Len() int {
	return len(r.cache)
}
