package discmd

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const magicTag = "discmd"

var (
	rTypeContext = reflect.TypeOf((*Context)(nil))
	rTypeError   = reflect.TypeOf((*error)(nil)).Elem()
)

//Parameter describes one positional argument of a command callback
type Parameter struct {
	//Name is synthesized from the position, external parsers may use it
	//when reporting conversion failures
	Name  string
	Index int
	Type  reflect.Type
	//Optional parameters are pointer typed, a missing value becomes nil
	Optional bool
}

//kwArgument binds a named value from Context.Kwargs to a field of the
//trailing keyword struct
type kwArgument struct {
	fieldIndex  int
	fieldName   string
	Name        string
	Description string
	Required    bool
	typ         reflect.Type
}

//analyzeHandler validates a command callback and extracts its parameters
//the expected shape is func(*Context, positional..., kwStruct?) error where
//the trailing struct is recognized by carrying at least one discmd tag
func analyzeHandler(fn interface{}) ([]*Parameter, reflect.Type, []*kwArgument, error) {
	typ := reflect.TypeOf(fn)
	if typ == nil || typ.Kind() != reflect.Func {
		return nil, nil, nil, fmt.Errorf("given type %v is not type of func", typ)
	}
	if typ.IsVariadic() {
		return nil, nil, nil, fmt.Errorf("given function(%s) is variadic, variadic callbacks are not supported", typ.String())
	}
	if typ.NumIn() < 1 || typ.In(0) != rTypeContext {
		return nil, nil, nil, fmt.Errorf("given function(%s) should receive *discmd.Context as its first argument", typ.String())
	}
	if typ.NumOut() != 1 || typ.Out(0) != rTypeError {
		return nil, nil, nil, fmt.Errorf("given function(%s) has %d outputs, expecting a single error", typ.String(), typ.NumOut())
	}

	var params []*Parameter
	var kwStruct reflect.Type
	var kwArgs []*kwArgument
	for i := 1; i < typ.NumIn(); i++ {
		at := typ.In(i)
		if i == typ.NumIn()-1 && isKwStruct(at) {
			st := at
			if st.Kind() == reflect.Ptr {
				st = st.Elem()
			}
			var err error
			kwArgs, err = analyzeKwStruct(st)
			if err != nil {
				return nil, nil, nil, fmt.Errorf(`analyzing keyword struct(%s): %w`, st.String(), err)
			}
			kwStruct = at
			continue
		}
		params = append(params, &Parameter{
			Name:     "arg" + strconv.Itoa(i-1),
			Index:    i - 1,
			Type:     at,
			Optional: at.Kind() == reflect.Ptr,
		})
	}
	return params, kwStruct, kwArgs, nil
}

//isKwStruct reports whether a callback argument is a keyword struct,
//meaning a struct (or pointer to one) with at least one discmd tagged field
func isKwStruct(typ reflect.Type) bool {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < typ.NumField(); i++ {
		if _, ok := typ.Field(i).Tag.Lookup(magicTag); ok {
			return true
		}
	}
	return false
}

func analyzeKwStruct(typ reflect.Type) ([]*kwArgument, error) {
	args := make([]*kwArgument, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" { //unexported
			continue
		}
		kw, err := analyzeKwField(i, field)
		if err != nil {
			return nil, fmt.Errorf(`analyzing field "%s": %w`, field.Name, err)
		}
		args = append(args, kw)
	}
	return args, nil
}

func analyzeKwField(index int, field reflect.StructField) (*kwArgument, error) {
	kw := &kwArgument{
		fieldIndex: index,
		fieldName:  field.Name,
		Name:       strings.ToLower(field.Name),
		Required:   field.Type.Kind() != reflect.Ptr,
		typ:        field.Type,
	}
	tags := splitTag(field.Tag.Get(magicTag))
	for key, value := range tags {
		switch key {
		case "":
			continue
		case "name":
			kw.Name = value
		case "description":
			kw.Description = value
		case "required":
			b, err := strconv.ParseBool(value)
			kw.Required = err != nil || b
		default:
			return nil, fmt.Errorf(`unrecognized tag "%s"`, key)
		}
	}
	return kw, nil
}

func splitTag(tag string) map[string]string {
	split := strings.Split(tag, ",")
	res := make(map[string]string, len(split))
	for _, sub := range split {
		kv := strings.SplitN(sub, ":", 2)
		switch len(kv) {
		default:
			continue
		case 1:
			res[kv[0]] = ""
		case 2:
			res[kv[0]] = kv[1]
		}
	}
	return res
}
