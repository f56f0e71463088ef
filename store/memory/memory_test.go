package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/unkn0wn-root/cachefn/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(Options{})
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestGetMissVersusEmptyString(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok, err := s.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "k", "", 0); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != "" {
		t.Fatalf("expected empty-string hit, v=%q ok=%v err=%v", v, ok, err)
	}
}

func TestSetExpires(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Set(ctx, "k", "v", 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	ttl, _ := s.TTL(ctx, "k")
	if ttl <= 0 || ttl > 50*time.Millisecond {
		t.Fatalf("ttl=%v", ttl)
	}
	time.Sleep(80 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected expired key to miss")
	}
	if ttl, _ := s.TTL(ctx, "k"); ttl != store.TTLMissing {
		t.Fatalf("expected TTLMissing, got %v", ttl)
	}
}

func TestSetWithoutTTLClearsExpiry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_ = s.Set(ctx, "k", "v", time.Minute)
	_ = s.Set(ctx, "k", "v2", 0)
	if ttl, _ := s.TTL(ctx, "k"); ttl != store.TTLPersistent {
		t.Fatalf("expected TTLPersistent, got %v", ttl)
	}
}

func TestHSetKeepsOtherFieldsAndTTL(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.HSet(ctx, "hello", map[string]string{"other": "x"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Expire(ctx, "hello", time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := s.HSet(ctx, "hello", map[string]string{"foo": "bar"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.HGetAll(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"foo": "bar", "other": "x"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	if ttl, _ := s.TTL(ctx, "hello"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("HSET should keep the hash expiry, ttl=%v", ttl)
	}
	if v, ok, _ := s.HGet(ctx, "hello", "foo"); !ok || v != "bar" {
		t.Fatalf("HGet foo: v=%q ok=%v", v, ok)
	}
	if _, ok, _ := s.HGet(ctx, "hello", "missing"); ok {
		t.Fatalf("HGet on missing field should miss")
	}
}

func TestHGetAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_ = s.HSet(ctx, "h", map[string]string{"a": "1"})
	got, _ := s.HGetAll(ctx, "h")
	got["a"] = "mutated"
	again, _ := s.HGetAll(ctx, "h")
	if again["a"] != "1" {
		t.Fatalf("store leaked its internal map")
	}
}

func TestListRanges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.RPush(ctx, "l", "a", "b", "c", "d"); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		start, stop int64
		want        []string
	}{
		{0, -1, []string{"a", "b", "c", "d"}},
		{1, 2, []string{"b", "c"}},
		{-2, -1, []string{"c", "d"}},
		{2, 100, []string{"c", "d"}},
		{3, 1, []string{}},
		{10, 20, []string{}},
	}
	for _, tc := range cases {
		got, err := s.LRange(ctx, "l", tc.start, tc.stop)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("LRange(%d,%d)=%v want %v", tc.start, tc.stop, got, tc.want)
		}
	}
}

func TestReplaceList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_ = s.ReplaceList(ctx, "l", []string{"a", "b", "c"}, time.Minute)
	_ = s.ReplaceList(ctx, "l", []string{"x", "y"}, 0)
	got, _ := s.LRange(ctx, "l", 0, -1)
	if !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("got=%v", got)
	}
	if ttl, _ := s.TTL(ctx, "l"); ttl != store.TTLPersistent {
		t.Fatalf("expected replaced list without expiry, ttl=%v", ttl)
	}

	_ = s.ReplaceList(ctx, "l", nil, 0)
	if ttl, _ := s.TTL(ctx, "l"); ttl != store.TTLMissing {
		t.Fatalf("empty replace should delete the key")
	}
}

func TestWrongType(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_ = s.Set(ctx, "str", "v", 0)
	if err := s.HSet(ctx, "str", map[string]string{"f": "v"}); !errors.Is(err, store.ErrWrongType) {
		t.Fatalf("HSet on string: %v", err)
	}
	if err := s.RPush(ctx, "str", "v"); !errors.Is(err, store.ErrWrongType) {
		t.Fatalf("RPush on string: %v", err)
	}
	if _, err := s.LRange(ctx, "str", 0, -1); !errors.Is(err, store.ErrWrongType) {
		t.Fatalf("LRange on string: %v", err)
	}
	_ = s.RPush(ctx, "list", "v")
	if _, _, err := s.Get(ctx, "list"); !errors.Is(err, store.ErrWrongType) {
		t.Fatalf("Get on list: %v", err)
	}
}

func TestDel(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_ = s.Set(ctx, "a", "1", 0)
	_ = s.HSet(ctx, "b", map[string]string{"f": "v"})
	if err := s.Del(ctx, "a", "b", "c"); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b"} {
		if ttl, _ := s.TTL(ctx, k); ttl != store.TTLMissing {
			t.Fatalf("%s still present", k)
		}
	}
}

func TestCloseWithJanitor(t *testing.T) {
	s := New(Options{Janitor: true, Capacity: 10})
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
}
