package datacol

import (
	"fmt"
	"sync"
)

// UnaryFunc is the registered form of an extension function: one input
// element in, one output element out.
type UnaryFunc func(in any) (any, error)

// The registry maps names to extension functions so that pipelines can apply
// functions by name (Call, SafeCall, Table.CallNamed). It replaces the
// dynamic attribute resolution of exploratory environments with an explicit
// lookup that either resolves or reports ErrLookup. Because application goes
// through Call rather than attribute interception, a registered name can
// never shadow the Collection's own operations.
var registry = struct {
	sync.RWMutex
	fns map[string]UnaryFunc
}{fns: make(map[string]UnaryFunc)}

// Register makes fn applicable by name. Registering an existing name
// replaces the previous function.
func Register(name string, fn UnaryFunc) {
	registry.Lock()
	defer registry.Unlock()
	registry.fns[name] = fn
}

// RegisterFunc registers a typed pure function. When applied, an input
// element that is not of type In is reported as an element failure.
func RegisterFunc[In, Out any](name string, fn func(In) Out) {
	RegisterTryFunc(name, func(in In) (Out, error) {
		return fn(in), nil
	})
}

// RegisterTryFunc registers a typed function that may fail.
func RegisterTryFunc[In, Out any](name string, fn func(In) (Out, error)) {
	Register(name, func(in any) (any, error) {
		v, err := assertArg[In](name, in)
		if err != nil {
			return nil, err
		}
		return fn(v)
	})
}

// Unregister removes a name from the registry.
func Unregister(name string) {
	registry.Lock()
	defer registry.Unlock()
	delete(registry.fns, name)
}

// Resolve looks a name up in the registry, reporting ErrLookup when nothing
// is registered under it.
func Resolve(name string) (UnaryFunc, error) {
	registry.RLock()
	defer registry.RUnlock()
	fn, ok := registry.fns[name]
	if !ok {
		return nil, lookupErr("function", name)
	}
	return fn, nil
}

func assertArg[T any](name string, in any) (T, error) {
	if in == nil {
		var zero T
		return zero, nil
	}
	v, ok := in.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: expected %T, got %T", name, zero, in)
	}
	return v, nil
}

// Call resolves name against the registry and maps the resolved function
// over the Collection. An unresolved name is an ErrLookup failure; the
// function's output elements must be of type Out.
func Call[In, Out any](c *Collection[In], name string) *Collection[Out] {
	fn, err := Resolve(name)
	if err != nil {
		return fail[In, Out](c, err)
	}
	return TryMap(c, func(in In) (Out, error) {
		out, err := fn(in)
		if err != nil {
			return *new(Out), err
		}
		return assertArg[Out](name, out)
	})
}

// SafeCall is the containment-aware Call: per-element failures of the
// resolved function become Empty markers. An unresolved name is still a
// structural ErrLookup failure.
func SafeCall[In, Out any](c *Collection[Option[In]], name string) *Collection[Option[Out]] {
	fn, err := Resolve(name)
	if err != nil {
		return fail[Option[In], Option[Out]](c, err)
	}
	return SafeMap(c, func(in In) (Out, error) {
		out, err := fn(in)
		if err != nil {
			return *new(Out), err
		}
		return assertArg[Out](name, out)
	})
}
