package interp

import (
	"fmt"
	"os"
	"reflect"

	"github.com/cwbudde/scmgo/internal/errors"
	"github.com/cwbudde/scmgo/internal/runtime"
)

// FileSystemAccessor mediates every file-system effect a script can
// trigger through load (§8: a host
// decides what, if anything, a script may touch; the interpreter itself
// has no ambient authority). A host embeds scmgo with the accessor that
// matches its trust model.
type FileSystemAccessor interface {
	OpenRead(path string) (*os.File, error)
	OpenWrite(path string) (*os.File, error)
}

// NoAccess is the default accessor: every operation is rejected. A host
// that never calls WithFileSystem gets a script sandbox with zero
// file-system authority.
type NoAccess struct{}

func (NoAccess) OpenRead(path string) (*os.File, error) {
	return nil, errors.New(errors.IoError, "file access is disabled: cannot open %q for reading", path)
}

func (NoAccess) OpenWrite(path string) (*os.File, error) {
	return nil, errors.New(errors.IoError, "file access is disabled: cannot open %q for writing", path)
}

// ReadOnlyFS delegates reads to the real file system (relative to Root,
// if set) and rejects every write.
type ReadOnlyFS struct {
	Root string
}

func (fs ReadOnlyFS) resolve(path string) string {
	if fs.Root == "" {
		return path
	}
	return fs.Root + string(os.PathSeparator) + path
}

func (fs ReadOnlyFS) OpenRead(path string) (*os.File, error) {
	f, err := os.Open(fs.resolve(path))
	if err != nil {
		return nil, errors.New(errors.IoError, "%v", err)
	}
	return f, nil
}

func (fs ReadOnlyFS) OpenWrite(path string) (*os.File, error) {
	return nil, errors.New(errors.IoError, "file access is read-only: cannot open %q for writing", path)
}

// Lift wraps a Go function as a NativeProcedure by reflection, in the
// same spirit as the teacher's typed marshaling layer: arity is checked
// against fn's parameter count, each runtime.Value argument is coerced
// to fn's declared parameter type (widening Integer to float64 where
// needed), fn is invoked, and its result(s) are converted back. fn may
// optionally return a trailing error, which becomes the call's error.
func Lift(name string, fn any) *runtime.NativeProcedure {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		panic(fmt.Sprintf("Lift(%q): not a function", name))
	}

	returnsError := fnType.NumOut() > 0 && fnType.Out(fnType.NumOut()-1) == reflect.TypeOf((*error)(nil)).Elem()

	return &runtime.NativeProcedure{
		Name: name,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			if fnType.IsVariadic() {
				if len(args) < fnType.NumIn()-1 {
					return nil, errors.New(errors.ArityError, "%s expects at least %d argument(s), got %d", name, fnType.NumIn()-1, len(args))
				}
			} else if len(args) != fnType.NumIn() {
				return nil, errors.New(errors.ArityError, "%s expects %d argument(s), got %d", name, fnType.NumIn(), len(args))
			}

			in := make([]reflect.Value, len(args))
			for idx, arg := range args {
				var paramType reflect.Type
				if fnType.IsVariadic() && idx >= fnType.NumIn()-1 {
					paramType = fnType.In(fnType.NumIn() - 1).Elem()
				} else {
					paramType = fnType.In(idx)
				}
				coerced, err := coerceArg(name, arg, paramType)
				if err != nil {
					return nil, err
				}
				in[idx] = coerced
			}

			out := fnVal.Call(in)

			if returnsError {
				if errVal := out[len(out)-1]; !errVal.IsNil() {
					return nil, errVal.Interface().(error)
				}
				out = out[:len(out)-1]
			}

			switch len(out) {
			case 0:
				return runtime.Unit{}, nil
			case 1:
				return goToValue(out[0]), nil
			default:
				results := make(runtime.List, len(out))
				for idx, v := range out {
					results[idx] = goToValue(v)
				}
				return results, nil
			}
		},
	}
}

func coerceArg(name string, arg runtime.Value, paramType reflect.Type) (reflect.Value, error) {
	switch paramType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := runtime.AsFloat(arg)
		if !ok {
			return reflect.Value{}, errors.New(errors.TypeError, "%s: expected a number, got %s", name, runtime.Print(arg))
		}
		return reflect.ValueOf(int64(n)).Convert(paramType), nil

	case reflect.Float32, reflect.Float64:
		n, ok := runtime.AsFloat(arg)
		if !ok {
			return reflect.Value{}, errors.New(errors.TypeError, "%s: expected a number, got %s", name, runtime.Print(arg))
		}
		return reflect.ValueOf(n).Convert(paramType), nil

	case reflect.String:
		s, ok := arg.(runtime.String)
		if !ok {
			return reflect.Value{}, errors.New(errors.TypeError, "%s: expected a string, got %s", name, runtime.Print(arg))
		}
		return reflect.ValueOf(string(s)).Convert(paramType), nil

	case reflect.Bool:
		return reflect.ValueOf(runtime.Truthy(arg)), nil

	default:
		if paramType == reflect.TypeOf((*runtime.Value)(nil)).Elem() {
			return reflect.ValueOf(arg), nil
		}
		return reflect.Value{}, errors.New(errors.TypeError, "%s: unsupported host parameter type %s", name, paramType)
	}
}

func goToValue(v reflect.Value) runtime.Value {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return runtime.Integer(v.Int())
	case reflect.Float32, reflect.Float64:
		return runtime.Float(v.Float())
	case reflect.String:
		return runtime.String(v.String())
	case reflect.Bool:
		return runtime.Boolean(v.Bool())
	default:
		if val, ok := v.Interface().(runtime.Value); ok {
			return val
		}
		return runtime.Unit{}
	}
}
