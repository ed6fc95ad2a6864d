package input

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseVK(t *testing.T) {
	cases := map[string]byte{
		"g":   'G',
		" L ": 'L',
		"7":   '7',
		"F1":  0x70,
		"f12": 0x7B,
		"]":   0xDD,
		"[":   0xDB,
		"esc": 0x1B,
	}
	for tok, want := range cases {
		got, err := ParseVK(tok)
		if err != nil || got != want {
			t.Fatalf("ParseVK(%q) = %#x, %v; want %#x", tok, got, err, want)
		}
	}
	for _, bad := range []string{"", "F13", "F0", "ctrl+g", "ü"} {
		if _, err := ParseVK(bad); !errors.Is(err, ErrUnknownKey) {
			t.Fatalf("ParseVK(%q) expected ErrUnknownKey, got %v", bad, err)
		}
	}
}

func TestParseAll_FailsOnUnknown(t *testing.T) {
	if _, err := ParseAll([]string{"g", "h", "nope"}); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	m, err := ParseAll([]string{"g", "]"})
	if err != nil || len(m) != 2 {
		t.Fatalf("unexpected result %v %v", m, err)
	}
}

func TestFocusGate(t *testing.T) {
	var title atomic.Value
	title.Store("Notepad")
	inner := KeySourceFunc(func(string) bool { return true })
	g := NewFocusGate(inner, "Umamusume", nil, func() (string, error) { return title.Load().(string), nil }, "]")
	g.interval = 5 * time.Millisecond
	g.Start()
	defer g.Stop()

	if g.Pressed("g") {
		t.Fatalf("stat key should be gated while unfocused")
	}
	if !g.Pressed("]") {
		t.Fatalf("exempt key should pass through")
	}
	title.Store("Umamusume Pretty Derby")
	deadline := time.Now().Add(time.Second)
	for !g.Pressed("g") {
		if time.Now().After(deadline) {
			t.Fatalf("gate never opened after focus change")
		}
		time.Sleep(5 * time.Millisecond)
	}
	g.Stop()
	g.Stop()
}

func TestFocusGate_NoWindowPassesThrough(t *testing.T) {
	g := NewFocusGate(KeySourceFunc(func(k string) bool { return k == "g" }), "", nil, nil)
	if !g.Pressed("g") || g.Pressed("h") {
		t.Fatalf("gate without window should delegate directly")
	}
}
