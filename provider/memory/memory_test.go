package memory

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryIsByteTransparentAndCopies(t *testing.T) {
	ctx := context.Background()
	p := New()

	in := []byte("dark")
	if ok, err := p.Set(ctx, "Settings/theme", in, 1); err != nil || !ok {
		t.Fatalf("Set ok=%v err=%v", ok, err)
	}
	in[0] = 'X' // caller mutation must not leak in

	got, ok, err := p.Get(ctx, "Settings/theme")
	if err != nil || !ok || !bytes.Equal(got, []byte("dark")) {
		t.Fatalf("Get got=%q ok=%v err=%v", got, ok, err)
	}

	if err := p.Del(ctx, "Settings/theme"); err != nil {
		t.Fatal(err)
	}
	if err := p.Del(ctx, "Settings/theme"); err != nil {
		t.Fatalf("deleting missing key should not fail: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "Settings/theme"); ok {
		t.Fatalf("expected miss after Del")
	}
}

func TestMemoryKeysSorted(t *testing.T) {
	ctx := context.Background()
	p := New()
	for _, k := range []string{"b/2", "a/1", "c/3"} {
		_, _ = p.Set(ctx, k, []byte(k), 1)
	}
	keys, err := p.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 3 || keys[0] != "a/1" || keys[2] != "c/3" {
		t.Fatalf("keys=%v", keys)
	}
}
