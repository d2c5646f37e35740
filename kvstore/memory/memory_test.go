package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	if err := s.Put(ctx, []byte("item/1"), []byte("one")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, []byte("item/1"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "one" {
		t.Errorf("Get = %q, want %q", got, "one")
	}

	missing, err := s.Get(ctx, []byte("item/2"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Get(missing) = %q, want nil", missing)
	}

	if err := s.Delete(ctx, []byte("item/1")); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := s.Get(ctx, []byte("item/1")); got != nil {
		t.Errorf("Get after Delete = %q, want nil", got)
	}
}

func TestValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New()

	value := []byte("abc")
	if err := s.Put(ctx, []byte("k"), value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	value[0] = 'X'

	got, _ := s.Get(ctx, []byte("k"))
	if string(got) != "abc" {
		t.Errorf("Get = %q, want %q", got, "abc")
	}
}

func TestIterate(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, k := range []string{"item/b", "item/a", "other/x", "item/c"} {
		if err := s.Put(ctx, []byte(k), []byte("v-"+k)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	var keys []string
	err := s.Iterate(ctx, []byte("item/"), func(key, value []byte) error {
		keys = append(keys, string(key))
		if string(value) != "v-"+string(key) {
			t.Errorf("value for %s = %q", key, value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	if diff := cmp.Diff([]string{"item/a", "item/b", "item/c"}, keys); diff != "" {
		t.Errorf("Iterate keys mismatch (-want +got):\n%s", diff)
	}

	stop := errors.New("stop")
	n := 0
	err = s.Iterate(ctx, nil, func(key, value []byte) error {
		n++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("Iterate error = %v, want the callback's error", err)
	}
	if n != 1 {
		t.Errorf("callback ran %d times, want 1", n)
	}
}

func TestIterateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New()
	if err := s.Put(ctx, []byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	cancel()

	err := s.Iterate(ctx, nil, func(key, value []byte) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Iterate error = %v, want context.Canceled", err)
	}
}
