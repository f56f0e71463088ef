package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack is a Codec that serializes values using vmihailenco/msgpack/v5.
// The zero value is ready to use.
//
// Msgpack is compact and fast; be mindful of struct tag differences vs JSON.
// Use `msgpack:"fieldName"` tags if you need explicit control.
type Msgpack[V any] struct{}

func (Msgpack[V]) Dump(v V) (string, error) {
	b, err := msgpack.Marshal(v)
	return string(b), err
}

func (Msgpack[V]) Load(s string) (V, error) {
	var v V
	err := msgpack.Unmarshal([]byte(s), &v)
	return v, err
}
