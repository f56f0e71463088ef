package codec

import (
	"strconv"
	"time"
)

// Bool stores "true"/"false". Load accepts anything strconv.ParseBool does.
type Bool struct{}

func (Bool) Dump(b bool) (string, error) { return strconv.FormatBool(b), nil }
func (Bool) Load(s string) (bool, error) { return strconv.ParseBool(s) }

// Int stores base-10 integers.
type Int struct{}

func (Int) Dump(n int64) (string, error) { return strconv.FormatInt(n, 10), nil }
func (Int) Load(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

// Time stores timestamps as RFC 3339 with nanoseconds. The location is kept
// as a numeric offset, so loaded values compare equal with time.Time.Equal.
type Time struct{}

func (Time) Dump(t time.Time) (string, error) { return t.Format(time.RFC3339Nano), nil }
func (Time) Load(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }
