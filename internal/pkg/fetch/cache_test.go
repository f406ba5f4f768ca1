package fetch

import (
	"bytes"
	"testing"
)

func TestCacheKeyStable(t *testing.T) {
	c, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	k1 := c.Key("https://www.vlr.gg/458127/")
	k2 := c.Key("https://www.vlr.gg/458127/")
	if k1 != k2 {
		t.Fatalf("key not stable: %s vs %s", k1, k2)
	}
	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	if k1 == c.Key("https://www.vlr.gg/458128/") {
		t.Fatal("different urls should have different keys")
	}
}

func TestCachePutGet(t *testing.T) {
	c, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	url := "https://www.vlr.gg/458127/"
	if _, ok := c.Get(url); ok {
		t.Fatal("empty cache should miss")
	}

	body := []byte("<html>match</html>")
	if err := c.Put(url, body); err != nil {
		t.Fatal(err)
	}

	got, ok := c.Get(url)
	if !ok {
		t.Fatal("expected cache hit after put")
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("cached body = %q, want %q", got, body)
	}
}
