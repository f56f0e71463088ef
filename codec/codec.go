// Package codec provides load/dump pairs that turn Go values into Redis
// strings and back. Every Codec satisfies cachefn.Transform[V, string], so it
// can back any string-shaped cache element:
//
//	el := cachefn.CodecElement[User](codec.JSON[User]{})
package codec

// Codec dumps V into a string for storage and loads it back.
type Codec[V any] interface {
	Dump(V) (string, error)
	Load(string) (V, error)
}
