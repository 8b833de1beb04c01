package placeholder

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"
)

// ErrNotFunction is returned when a generator script does not evaluate to a function.
var ErrNotFunction = errors.New("generator script is not a function")

// ScriptGenerator compiles a JavaScript function expression, for example
// `function() { return "user" + Math.floor(Math.random() * 100) }`, into a
// Generator. Each generator owns its runtime; calls are serialized.
func ScriptGenerator(name, src string, logger zerolog.Logger) (Generator, error) {
	program, err := goja.Compile(name, "("+src+")", true)
	if err != nil {
		return nil, fmt.Errorf("compiling generator %q: %w", name, err)
	}

	vm := goja.New()
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, fmt.Errorf("evaluating generator %q: %w", name, err)
	}
	fn, ok := goja.AssertFunction(value)
	if !ok {
		return nil, fmt.Errorf("generator %q: %w", name, ErrNotFunction)
	}

	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()

		out, err := fn(goja.Undefined())
		if err != nil {
			logger.Warn().Err(err).Str("generator", name).Msg("placeholder script failed")
			return ""
		}
		if out == nil || goja.IsUndefined(out) || goja.IsNull(out) {
			return ""
		}
		return out.String()
	}, nil
}

// ScriptRegistry compiles every source in scripts into a Registry.
func ScriptRegistry(scripts map[string]string, logger zerolog.Logger) (Registry, error) {
	reg := make(Registry, len(scripts))
	for name, src := range scripts {
		gen, err := ScriptGenerator(name, src, logger)
		if err != nil {
			return nil, err
		}
		reg[name] = gen
	}
	return reg, nil
}
