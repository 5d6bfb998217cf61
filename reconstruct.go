package discmd

import (
	"fmt"
	"reflect"
)

//buildCallValues assembles the reflect values for calling an executor's
//callback from already-converted positional args and named kwargs
//pointer parameters are optional and may be omitted or nil
func buildCallValues(e *Executor, ctx *Context, args []interface{}, kwargs map[string]interface{}) ([]reflect.Value, error) {
	if len(args) > len(e.params) {
		return nil, ArgumentMismatchError{
			Command: e.QualifiedName(),
			Reason:  fmt.Sprintf("takes %d positional arguments but %d were given", len(e.params), len(args)),
		}
	}
	values := make([]reflect.Value, 0, 2+len(e.params))
	values = append(values, reflect.ValueOf(ctx))
	for i, p := range e.params {
		if i >= len(args) || args[i] == nil {
			if !p.Optional {
				return nil, ArgumentMismatchError{
					Command: e.QualifiedName(),
					Reason:  fmt.Sprintf(`missing required argument %s(%s)`, p.Name, p.Type.String()),
				}
			}
			values = append(values, reflect.Zero(p.Type))
			continue
		}
		v, err := coerceValue(reflect.ValueOf(args[i]), p.Type)
		if err != nil {
			return nil, ArgumentMismatchError{
				Command: e.QualifiedName(),
				Reason:  fmt.Sprintf("argument %s: %v", p.Name, err),
			}
		}
		values = append(values, v)
	}
	if e.kwStruct == nil {
		return values, nil
	}

	st := e.kwStruct
	ptr := st.Kind() == reflect.Ptr
	if ptr {
		st = st.Elem()
	}
	stv := reflect.New(st).Elem()
	for _, kw := range e.kwArgs {
		raw, ok := kwargs[kw.Name]
		if !ok || raw == nil {
			if kw.Required {
				return nil, ArgumentMismatchError{
					Command: e.QualifiedName(),
					Reason:  fmt.Sprintf(`missing required keyword argument "%s"`, kw.Name),
				}
			}
			continue
		}
		v, err := coerceValue(reflect.ValueOf(raw), kw.typ)
		if err != nil {
			return nil, ArgumentMismatchError{
				Command: e.QualifiedName(),
				Reason:  fmt.Sprintf(`keyword argument "%s": %v`, kw.Name, err),
			}
		}
		stv.Field(kw.fieldIndex).Set(v)
	}
	if ptr {
		values = append(values, stv.Addr())
	} else {
		values = append(values, stv)
	}
	return values, nil
}

//coerceValue fits a supplied value to the target type, wrapping values into
//a pointer when the target is pointer typed
func coerceValue(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	if v.Type().AssignableTo(target) {
		return v, nil
	}
	if target.Kind() == reflect.Ptr && v.Type().AssignableTo(target.Elem()) {
		pv := reflect.New(target.Elem())
		pv.Elem().Set(v)
		return pv, nil
	}
	return reflect.Value{}, fmt.Errorf(`expecting "%s" received "%s"`, target.String(), v.Type().String())
}
