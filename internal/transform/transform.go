// Package transform provides the named pure text transforms applied
// to Transform-node subtrees. Transforms are string-in/string-out and
// must be side-effect free; the compositor applies them to already-
// rendered subtree text before emission.
//
// Besides Go-native built-ins, transforms can be defined in Lua: a
// script exposing a transform(text) function runs in a sandboxed
// state with only the base and string libraries opened.
package transform

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Registry errors.
var (
	// ErrNotFound is returned when no transform has the given name.
	ErrNotFound = errors.New("transform not found")

	// ErrDuplicate is returned when a name is registered twice.
	ErrDuplicate = errors.New("transform already registered")

	// ErrBadScript is returned when a Lua script does not define a
	// transform function.
	ErrBadScript = errors.New("script must define transform(text)")
)

// Func is a pure text transform.
type Func func(text string) (string, error)

// Registry holds named transforms.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates a registry pre-loaded with the built-in
// transforms.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	for name, fn := range builtins {
		r.funcs[name] = fn
	}
	return r
}

// builtins are the Go-native transforms available by default.
var builtins = map[string]Func{
	"identity": func(s string) (string, error) { return s, nil },
	"upper":    func(s string) (string, error) { return strings.ToUpper(s), nil },
	"lower":    func(s string) (string, error) { return strings.ToLower(s), nil },
	"trim": func(s string) (string, error) {
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " ")
		}
		return strings.Join(lines, "\n"), nil
	},
}

// Register adds a transform under the given name.
func (r *Registry) Register(name string, fn Func) error {
	if fn == nil {
		return fmt.Errorf("transform %q: nil func", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	r.funcs[name] = fn
	return nil
}

// RegisterScript compiles a Lua script defining transform(text) and
// registers it under the given name.
func (r *Registry) RegisterScript(name, script string) error {
	st, err := newScriptState(script)
	if err != nil {
		return err
	}
	return r.Register(name, st.apply)
}

// Apply runs the named transform on text.
func (r *Registry) Apply(name, text string) (string, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return fn(text)
}

// Has reports whether the named transform exists.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.funcs[name]
	return ok
}

// scriptState owns one sandboxed Lua state. Calls are serialized; an
// LState is not safe for concurrent use.
type scriptState struct {
	mu sync.Mutex
	ls *lua.LState
	fn lua.LValue
}

// newScriptState compiles the script in a state with only the base
// and string libraries opened.
func newScriptState(script string) (*scriptState, error) {
	ls := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, open := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
	} {
		if err := ls.CallByParam(lua.P{
			Fn:      ls.NewFunction(open.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(open.name)); err != nil {
			ls.Close()
			return nil, fmt.Errorf("opening %s: %w", open.name, err)
		}
	}

	if err := ls.DoString(script); err != nil {
		ls.Close()
		return nil, fmt.Errorf("compiling transform script: %w", err)
	}

	fn := ls.GetGlobal("transform")
	if fn.Type() != lua.LTFunction {
		ls.Close()
		return nil, ErrBadScript
	}
	return &scriptState{ls: ls, fn: fn}, nil
}

// apply invokes the script's transform function.
func (s *scriptState) apply(text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ls.CallByParam(lua.P{
		Fn:      s.fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(text)); err != nil {
		return "", fmt.Errorf("transform script: %w", err)
	}

	ret := s.ls.Get(-1)
	s.ls.Pop(1)

	out, ok := ret.(lua.LString)
	if !ok {
		return "", fmt.Errorf("transform script returned %s, want string", ret.Type())
	}
	return string(out), nil
}
