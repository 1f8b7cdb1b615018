// Copyright (c) 2025 Marius Karlsen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"bytes"
	"testing"
)

func TestSetGetInvalidate(t *testing.T) {
	v := New()

	if _, ok := v.Get("/polls"); ok {
		t.Error("Expected miss on empty cache")
	}

	v.Set("/polls", []byte(`["a"]`))
	payload, ok := v.Get("/polls")
	if !ok {
		t.Fatal("Expected hit after Set")
	}
	if !bytes.Equal(payload, []byte(`["a"]`)) {
		t.Errorf("Unexpected payload: %s", payload)
	}

	v.Invalidate("/polls")
	if _, ok := v.Get("/polls"); ok {
		t.Error("Expected miss after Invalidate")
	}

	// Invalidating an uncached path is a no-op
	v.Invalidate("/never-set")
}

func TestPathsAreIndependent(t *testing.T) {
	v := New()

	v.Set("/polls", []byte("list"))
	v.Set("/polls/abc", []byte("detail"))

	v.Invalidate("/polls/abc")

	if _, ok := v.Get("/polls/abc"); ok {
		t.Error("Expected /polls/abc to be invalidated")
	}
	if _, ok := v.Get("/polls"); !ok {
		t.Error("Expected /polls to survive")
	}
}
