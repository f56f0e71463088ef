package codec

import "fmt"

// Limit wraps another codec and refuses to Load payloads larger than MaxLoad
// bytes. Dump is forwarded unchanged. MaxLoad <= 0 disables the check.
//
// Typical use: protect against oversized entries in a cache shared with
// other writers.
type Limit[V any] struct {
	Inner   Codec[V]
	MaxLoad int
}

func (c Limit[V]) Dump(v V) (string, error) { return c.Inner.Dump(v) }

func (c Limit[V]) Load(s string) (V, error) {
	if c.MaxLoad > 0 && len(s) > c.MaxLoad {
		var zero V
		return zero, fmt.Errorf("payload too large: %d > %d", len(s), c.MaxLoad)
	}
	return c.Inner.Load(s)
}
