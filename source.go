package datacol

import (
	"fmt"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// RegisterSource compiles a unary function from Go source text and registers
// it under name. The source is evaluated by the yaegi interpreter with the
// standard library available, and must leave a function with the given name
// in scope, e.g.
//
//	err := datacol.RegisterSource("add1", `func add1(x int64) int64 { return x + 1 }`)
//
// Supported signatures:
//
//	func(any) (any, error)
//	func(any) any
//	func(int64) int64
//	func(float64) float64
//	func(string) string
//
// Any other signature is an InvalidArgument error. Errors returned by the
// compiled function follow the usual element-failure rules.
func RegisterSource(name, src string) error {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("datacol: loading interpreter stdlib: %w", err)
	}
	if _, err := i.Eval(src); err != nil {
		return fmt.Errorf("datacol: compiling %q: %w", name, err)
	}
	v, err := i.Eval(name)
	if err != nil {
		return fmt.Errorf("%w: source for %q does not define it", ErrInvalidArgument, name)
	}

	fn, err := adaptSourceFunc(name, v.Interface())
	if err != nil {
		return err
	}
	Register(name, fn)
	return nil
}

func adaptSourceFunc(name string, fn any) (UnaryFunc, error) {
	switch f := fn.(type) {
	case func(any) (any, error):
		return f, nil
	case func(any) any:
		return func(in any) (any, error) {
			return f(in), nil
		}, nil
	case func(int64) int64:
		return func(in any) (any, error) {
			v, err := assertArg[int64](name, in)
			if err != nil {
				return nil, err
			}
			return f(v), nil
		}, nil
	case func(float64) float64:
		return func(in any) (any, error) {
			v, err := assertArg[float64](name, in)
			if err != nil {
				return nil, err
			}
			return f(v), nil
		}, nil
	case func(string) string:
		return func(in any) (any, error) {
			v, err := assertArg[string](name, in)
			if err != nil {
				return nil, err
			}
			return f(v), nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported signature %T for %q", ErrInvalidArgument, fn, name)
	}
}
