package tui

import (
	"testing"

	"github.com/samuelreed/tilegrid/internal/layout"
)

func TestKeyMap_Direction(t *testing.T) {
	k := DefaultKeyMap()
	tests := []struct {
		key  string
		want layout.Direction
	}{
		{"up", layout.DirUp},
		{"ctrl+down", layout.DirDown},
		{"left", layout.DirLeft},
		{"ctrl+right", layout.DirRight},
		{"tab", layout.DirNext},
		{"shift+tab", layout.DirPrev},
	}
	for _, tt := range tests {
		got, ok := k.direction(tt.key)
		if !ok || got != tt.want {
			t.Errorf("direction(%q) = %v, %v; want %v", tt.key, got, ok, tt.want)
		}
	}
	if _, ok := k.direction("m"); ok {
		t.Error("m is not a focus key")
	}
}

func TestPageIndex(t *testing.T) {
	if i, ok := pageIndex("f3"); !ok || i != 2 {
		t.Errorf("pageIndex(f3) = %d, %v", i, ok)
	}
	if _, ok := pageIndex("f9"); ok {
		t.Error("f9 is not bound")
	}
}

func TestKeyMap_Describe(t *testing.T) {
	k := DefaultKeyMap()
	if got, ok := k.Describe("g"); !ok || got != "maximize as grid" {
		t.Errorf("Describe(g) = %q, %v", got, ok)
	}
	if got, ok := k.Describe("ctrl+shift+right"); !ok || got != "next page" {
		t.Errorf("Describe(ctrl+shift+right) = %q, %v", got, ok)
	}
	if _, ok := k.Describe("z"); ok {
		t.Error("z is not bound")
	}
	if n := len(k.Bindings()); n != 18 {
		t.Errorf("Bindings() = %d, want 18", n)
	}
}
