// Package placeholder substitutes template markers in request parameters
// with generated values.
package placeholder

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownPlaceholder is returned when a marker names no registered generator.
var ErrUnknownPlaceholder = errors.New("unknown placeholder")

// Marker wraps a template value on both sides.
const Marker = "%"

// Generator produces a substitute value for a template marker.
type Generator func() string

// Registry maps marker names to generators.
type Registry map[string]Generator

// LookupError reports the parameter whose marker could not be resolved.
type LookupError struct {
	Key  string
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("parameter %q: %s %q", e.Key, ErrUnknownPlaceholder, e.Name)
}

func (e *LookupError) Unwrap() error {
	return ErrUnknownPlaceholder
}

const letters = "abcdefghijklmnopqrstuvwxyz"

// DefaultRegistry returns the builtin generators. intn may be nil, in which
// case the global math/rand source is used.
func DefaultRegistry(intn func(n int) int) Registry {
	if intn == nil {
		intn = rand.IntN
	}

	randomLetters := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(letters[intn(len(letters))])
		}
		return b.String()
	}

	return Registry{
		"random_email": func() string {
			return randomLetters(5) + "@" + randomLetters(5) + ".com"
		},
		"uuid": func() string {
			return uuid.New().String()
		},
		"timestamp": func() string {
			return strconv.FormatInt(time.Now().Unix(), 10)
		},
	}
}

// Resolver replaces template markers using an injected registry.
type Resolver struct {
	mu       sync.RWMutex
	registry Registry
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithGenerator registers an additional generator, replacing any builtin of
// the same name.
func WithGenerator(name string, gen Generator) Option {
	return func(r *Resolver) {
		r.registry[name] = gen
	}
}

// NewResolver creates a resolver over a copy of reg. A nil registry yields
// DefaultRegistry(nil).
func NewResolver(reg Registry, opts ...Option) *Resolver {
	if reg == nil {
		reg = DefaultRegistry(nil)
	}
	r := &Resolver{registry: make(Registry, len(reg))}
	for name, gen := range reg {
		r.registry[name] = gen
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a generator.
func (r *Resolver) Register(name string, gen Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry[name] = gen
}

// Names returns the registered marker names.
func (r *Resolver) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	return names
}

// IsTemplate reports whether value starts and ends with the marker.
func IsTemplate(value string) bool {
	return len(value) >= 2 && strings.HasPrefix(value, Marker) && strings.HasSuffix(value, Marker)
}

// Value resolves a single value. Non-template values are returned unchanged.
func (r *Resolver) Value(key, value string) (string, error) {
	if !IsTemplate(value) {
		return value, nil
	}
	name := strings.ReplaceAll(value, Marker, "")

	r.mu.RLock()
	gen, ok := r.registry[name]
	r.mu.RUnlock()
	if !ok {
		return "", &LookupError{Key: key, Name: name}
	}
	return gen(), nil
}

// Resolve returns a new mapping with every template value substituted.
// The input is not modified.
func (r *Resolver) Resolve(raw map[string]string) (map[string]string, error) {
	result := make(map[string]string, len(raw))
	for key, value := range raw {
		resolved, err := r.Value(key, value)
		if err != nil {
			return nil, err
		}
		result[key] = resolved
	}
	return result, nil
}
