package codec

import "encoding/json"

type JSON[V any] struct{}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[V]) Dump(v V) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

func (JSON[V]) Load(s string) (V, error) {
	var v V
	err := json.Unmarshal([]byte(s), &v)
	return v, err
}
