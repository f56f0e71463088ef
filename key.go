package cachefn

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/unkn0wn-root/cachefn/internal/util"
)

const (
	// DefaultNamespace prefixes every derived key unless Options.Namespace is set.
	DefaultNamespace = "cachefn"
	// KeySeparator joins namespace, function name and encoded arguments.
	KeySeparator = ":"
)

// KeyArg lets an argument type choose its own key representation.
// The result must be stable for equal values. As the whole argument it is
// used verbatim; nested in another value it is quoted.
type KeyArg interface {
	CacheKeyArg() string
}

var (
	keyArgType = reflect.TypeOf((*KeyArg)(nil)).Elem()
	timeType   = reflect.TypeOf(time.Time{})
)

// keyBuilder derives keys of the form
//
//	<namespace>:<name>[:<args>]
//
// The args segment is omitted when the arguments encode to nothing (struct{}).
type keyBuilder struct {
	namespace string
	name      string
	maxLen    int // 0 disables digesting
}

// nilArgs renders a nil pointer or interface argument. A string reached
// through a pointer or interface is quoted, so it cannot produce this.
const nilArgs = "<nil>"

// buildKey encodes args with its static type A, so an interface-typed
// argument is seen as an interface rather than as its dynamic value.
func buildKey[A any](b keyBuilder, args A) (string, error) {
	return b.build(reflect.ValueOf(&args).Elem())
}

func (b keyBuilder) build(args reflect.Value) (string, error) {
	var e encoder
	enc, err := e.args(args)
	if err != nil {
		if ke, ok := err.(*KeyError); ok {
			ke.Func = b.name
		}
		return "", err
	}
	prefix := b.namespace + KeySeparator + b.name
	if enc == "" {
		return prefix, nil
	}
	key := prefix + KeySeparator + enc
	if b.maxLen > 0 && len(key) > b.maxLen {
		key = prefix + KeySeparator + util.Digest("h", enc)
	}
	return key, nil
}

// encoder tracks the pointers, maps and slices on the path being encoded.
type encoder struct {
	active map[visit]struct{}
}

type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// enter marks v as being encoded. It fails if v is already on the path,
// which only happens for a cyclic value. Call the returned func on the way
// out so that shared, acyclic references still encode.
func (e *encoder) enter(v reflect.Value, path string) (func(), error) {
	k := visit{ptr: v.Pointer(), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		k.len = v.Len()
	}
	if _, ok := e.active[k]; ok {
		return nil, &KeyError{Path: path, Reason: "contains a reference cycle"}
	}
	if e.active == nil {
		e.active = make(map[visit]struct{})
	}
	e.active[k] = struct{}{}
	return func() { delete(e.active, k) }, nil
}

// args renders the top-level argument. A string or []byte argument renders
// raw so that single-argument keys stay readable ("ns:getUser:bob"), as does
// a KeyArg. A struct renders as its sorted name=value pairs joined by
// KeySeparator. Anything reached through a pointer or interface renders as
// a nested value, with strings quoted, so any(1) and any("1") differ.
func (e *encoder) args(v reflect.Value) (string, error) {
	if !v.IsValid() {
		return nilArgs, nil
	}
	indirect := false
	for {
		if v.Kind() != reflect.Interface && v.Type().Implements(keyArgType) {
			if v.Kind() == reflect.Pointer && v.IsNil() {
				return nilArgs, nil
			}
			return v.Interface().(KeyArg).CacheKeyArg(), nil
		}
		if v.Kind() != reflect.Pointer && v.Kind() != reflect.Interface {
			break
		}
		if v.IsNil() {
			return nilArgs, nil
		}
		if v.Kind() == reflect.Pointer {
			// The top-level chain stays on the path for the whole encoding.
			if _, err := e.enter(v, "args"); err != nil {
				return "", err
			}
		}
		v = v.Elem()
		indirect = true
	}

	switch {
	case v.Type() == timeType:
		return encodeTime(v), nil
	case v.Kind() == reflect.Struct:
		pairs, err := e.structPairs(v, "args")
		if err != nil {
			return "", err
		}
		return util.JoinSorted(pairs, KeySeparator), nil
	case indirect:
		return e.value(v, "args")
	case v.Kind() == reflect.String:
		return v.String(), nil
	case isBytes(v):
		return string(v.Bytes()), nil
	}
	return e.value(v, "args")
}

// value renders nested values. Strings are quoted so that a separator
// inside a value cannot make two different argument sets collide.
func (e *encoder) value(v reflect.Value, path string) (string, error) {
	if !v.IsValid() {
		return "nil", nil
	}
	if v.CanInterface() && v.Type().Implements(keyArgType) {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
			return "nil", nil
		}
		return strconv.Quote(v.Interface().(KeyArg).CacheKeyArg()), nil
	}
	if v.Type() == timeType {
		return encodeTime(v), nil
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return "nil", nil
		}
		return e.value(v.Elem(), path)
	case reflect.Pointer:
		if v.IsNil() {
			return "nil", nil
		}
		leave, err := e.enter(v, path)
		if err != nil {
			return "", err
		}
		defer leave()
		return e.value(v.Elem(), path)
	case reflect.String:
		return strconv.Quote(v.String()), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()), nil
	case reflect.Slice, reflect.Array:
		if isBytes(v) {
			return strconv.Quote(string(v.Bytes())), nil
		}
		if v.Kind() == reflect.Slice && v.Len() > 0 {
			leave, err := e.enter(v, path)
			if err != nil {
				return "", err
			}
			defer leave()
		}
		parts := make([]string, v.Len())
		for i := range parts {
			s, err := e.value(v.Index(i), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case reflect.Map:
		if v.Len() > 0 {
			leave, err := e.enter(v, path)
			if err != nil {
				return "", err
			}
			defer leave()
		}
		pairs := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k, err := e.value(iter.Key(), path+"[key]")
			if err != nil {
				return "", err
			}
			val, err := e.value(iter.Value(), path+"["+k+"]")
			if err != nil {
				return "", err
			}
			pairs = append(pairs, k+"="+val)
		}
		return "{" + util.JoinSorted(pairs, ",") + "}", nil
	case reflect.Struct:
		pairs, err := e.structPairs(v, path)
		if err != nil {
			return "", err
		}
		return "{" + util.JoinSorted(pairs, ",") + "}", nil
	}
	return "", &KeyError{Path: path, Reason: "has unsupported kind " + v.Kind().String()}
}

// structPairs returns name=value for every exported field. The `cache` tag
// renames a field, `cache:"-"` skips it.
func (e *encoder) structPairs(v reflect.Value, path string) ([]string, error) {
	t := v.Type()
	pairs := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("cache"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		s, err := e.value(v.Field(i), path+"."+name)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, name+"="+s)
	}
	return pairs, nil
}

func encodeTime(v reflect.Value) string {
	return v.Interface().(time.Time).UTC().Format(time.RFC3339Nano)
}

func isBytes(v reflect.Value) bool {
	return v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8
}

// funcName returns the package-qualified name of fn, e.g. "users.getUser".
// Function literals come back as "users.init.func1"; see Value.
func funcName(fn any) string {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
