package codec

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type user struct {
	ID   string `json:"id" msgpack:"id" cbor:"id"`
	Name string `json:"name" msgpack:"name" cbor:"name"`
	Tags []string
}

func roundTrip[V any](t *testing.T, c Codec[V], v V) V {
	t.Helper()
	s, err := c.Dump(v)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out, err := c.Load(s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return out
}

func TestStructCodecs(t *testing.T) {
	in := user{ID: "1", Name: "Ada", Tags: []string{"a", "b"}}
	codecs := map[string]Codec[user]{
		"json":    JSON[user]{},
		"msgpack": Msgpack[user]{},
		"cbor":    MustCBOR[user](false),
		"cborDet": MustCBOR[user](true),
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			got := roundTrip(t, c, in)
			if got.ID != in.ID || got.Name != in.Name || len(got.Tags) != 2 {
				t.Fatalf("got %+v want %+v", got, in)
			}
		})
	}
}

func TestDeterministicCBORIsStable(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	a, _ := c.Dump(map[string]int{"b": 2, "a": 1, "c": 3})
	b, _ := c.Dump(map[string]int{"c": 3, "a": 1, "b": 2})
	if a != b {
		t.Fatalf("deterministic CBOR produced different payloads")
	}
}

func TestProtobuf(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	got := roundTrip[*wrapperspb.StringValue](t, c, wrapperspb.String("hello"))
	if !proto.Equal(got, wrapperspb.String("hello")) {
		t.Fatalf("got %v", got)
	}
}

func TestJSONLoadError(t *testing.T) {
	if _, err := (JSON[user]{}).Load("{not json"); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestScalars(t *testing.T) {
	if got := roundTrip[bool](t, Bool{}, false); got {
		t.Fatalf("false did not survive")
	}
	if got := roundTrip[int64](t, Int{}, -42); got != -42 {
		t.Fatalf("int got %d", got)
	}
	if _, err := (Bool{}).Load("maybe"); err == nil {
		t.Fatalf("expected bool parse error")
	}

	now := time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.FixedZone("X", 2*3600))
	s, _ := Time{}.Dump(now)
	if s != "2024-05-01T12:30:00.123456789+02:00" {
		t.Fatalf("time dump %q", s)
	}
	if got := roundTrip[time.Time](t, Time{}, now); !got.Equal(now) {
		t.Fatalf("time got %v want %v", got, now)
	}
}

func TestRaw(t *testing.T) {
	if got := roundTrip[string](t, String{}, ""); got != "" {
		t.Fatalf("string got %q", got)
	}
	b := []byte{0, 1, 2, 0xff}
	if got := roundTrip[[]byte](t, Bytes{}, b); string(got) != string(b) {
		t.Fatalf("bytes got %x", got)
	}
}

func TestLimit(t *testing.T) {
	c := Limit[string]{Inner: String{}, MaxLoad: 4}
	if _, err := c.Load("abcd"); err != nil {
		t.Fatalf("at limit: %v", err)
	}
	_, err := c.Load("abcde")
	if err == nil || !strings.Contains(err.Error(), "payload too large") {
		t.Fatalf("expected size error, got %v", err)
	}
	if _, err := (Limit[string]{Inner: String{}}).Load(strings.Repeat("x", 1<<16)); err != nil {
		t.Fatalf("disabled limit: %v", err)
	}
}
