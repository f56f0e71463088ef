package cachefn

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/unkn0wn-root/cachefn/store"
	"github.com/unkn0wn-root/cachefn/store/memory"
)

// plainStore hides optional capabilities such as store.ListReplacer.
type plainStore struct{ store.Store }

func TestListCacheableReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range map[string]store.Store{
		"replacer": memory.New(memory.Options{}),
		"fallback": plainStore{memory.New(memory.Options{})},
	} {
		t.Run(name, func(t *testing.T) {
			var c ListCacheable
			if _, ok, err := c.Fetch(ctx, s, "l"); ok || err != nil {
				t.Fatalf("expected miss, ok=%v err=%v", ok, err)
			}
			if err := c.Store(ctx, s, "l", []string{"a", "b", "c"}, time.Minute); err != nil {
				t.Fatal(err)
			}
			got, ok, _ := c.Fetch(ctx, s, "l")
			if !ok || !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
				t.Fatalf("got=%v", got)
			}
			if err := c.Store(ctx, s, "l", []string{"x", "y"}, time.Minute); err != nil {
				t.Fatal(err)
			}
			got, _, _ = c.Fetch(ctx, s, "l")
			if !reflect.DeepEqual(got, []string{"x", "y"}) {
				t.Fatalf("leftover elements: %v", got)
			}
			if ttl, _ := s.TTL(ctx, "l"); ttl <= 0 {
				t.Fatalf("ttl=%v", ttl)
			}
			if err := c.Store(ctx, s, "l", nil, 0); err != nil {
				t.Fatal(err)
			}
			if _, ok, _ := c.Fetch(ctx, s, "l"); ok {
				t.Fatalf("empty list should clear the entry")
			}
		})
	}
}

func TestDictCacheable(t *testing.T) {
	ctx := context.Background()
	s := memory.New(memory.Options{})
	var c DictCacheable

	if _, ok, _ := c.Fetch(ctx, s, "h"); ok {
		t.Fatalf("expected miss")
	}
	if err := c.Store(ctx, s, "h", map[string]string{"a": "1"}, 0); err != nil {
		t.Fatal(err)
	}
	if ttl, _ := s.TTL(ctx, "h"); ttl != store.TTLPersistent {
		t.Fatalf("ttl=%v", ttl)
	}
	got, ok, _ := c.Fetch(ctx, s, "h")
	if !ok || got["a"] != "1" {
		t.Fatalf("got=%v", got)
	}
	if err := c.Store(ctx, s, "h", map[string]string{}, 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Fetch(ctx, s, "h"); ok {
		t.Fatalf("empty map should clear the entry")
	}
}

func TestHashStoreWithoutTTLKeepsExpiry(t *testing.T) {
	ctx := context.Background()
	s := memory.New(memory.Options{})

	short := DictStringCacheable{Field: "a"}
	if err := short.Store(ctx, s, "h", "1", time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := (DictStringCacheable{Field: "b"}).Store(ctx, s, "h", "2", 0); err != nil {
		t.Fatal(err)
	}
	if ttl, _ := s.TTL(ctx, "h"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("field without ttl changed the hash expiry: %v", ttl)
	}

	if err := (DictCacheable{}).Store(ctx, s, "h", map[string]string{"c": "3"}, 0); err != nil {
		t.Fatal(err)
	}
	if ttl, _ := s.TTL(ctx, "h"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("map without ttl changed the hash expiry: %v", ttl)
	}
	got, _, _ := DictCacheable{}.Fetch(ctx, s, "h")
	if len(got) != 3 {
		t.Fatalf("merge lost fields: %v", got)
	}
}

func TestStringCacheableWrongType(t *testing.T) {
	ctx := context.Background()
	s := memory.New(memory.Options{})
	_ = s.RPush(ctx, "k", "v")

	_, _, err := StringCacheable{}.Fetch(ctx, s, "k")
	var se *StoreError
	if !errors.As(err, &se) || se.Op != "get" || !errors.Is(err, store.ErrWrongType) {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("StoreError should match ErrStoreUnavailable")
	}
}

func TestDictFieldElementEmptyValue(t *testing.T) {
	ctx := context.Background()
	s := memory.New(memory.Options{})

	el := DictFieldElement("f")
	if err := el.Set(ctx, s, "h", "", 0); err != nil {
		t.Fatal(err)
	}
	v, ok, err := el.Get(ctx, s, "h")
	if err != nil || !ok || v != "" {
		t.Fatalf("v=%q ok=%v err=%v", v, ok, err)
	}
	if _, ok, _ := DictFieldElement("g").Get(ctx, s, "h"); ok {
		t.Fatalf("other field should miss")
	}
}
