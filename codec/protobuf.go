package codec

import "google.golang.org/protobuf/proto"

type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *pb.User { return &pb.User{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Dump(v T) (string, error) {
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(v)
	return string(b), err
}

func (c Protobuf[T]) Load(s string) (T, error) {
	m := c.new()
	err := proto.Unmarshal([]byte(s), m)
	return m, err
}
