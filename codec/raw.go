package codec

// String is the identity codec. Values are stored and returned unchanged.
type String struct{}

func (String) Dump(s string) (string, error) { return s, nil }
func (String) Load(s string) (string, error) { return s, nil }

// Bytes stores raw byte slices. Redis strings are binary safe, so no
// encoding is applied.
type Bytes struct{}

func (Bytes) Dump(b []byte) (string, error) { return string(b), nil }
func (Bytes) Load(s string) ([]byte, error) { return []byte(s), nil }
