package exercise

import "testing"

func TestKinds(t *testing.T) {
	all := AllKinds()
	if len(all) != 13 {
		t.Fatalf("AllKinds = %d kinds, want 13", len(all))
	}

	typed, ordered := 0, 0
	for _, k := range all {
		if !k.Known() {
			t.Errorf("%s not known", k)
		}
		if k.DisplayName() == string(k) {
			t.Errorf("%s has no display name", k)
		}
		if k.Typed() {
			typed++
		}
		if k.Ordered() {
			ordered++
		}
	}
	if typed != 3 || ordered != 2 {
		t.Errorf("typed = %d, ordered = %d; want 3 and 2", typed, ordered)
	}

	if Kind("flashcard").Known() {
		t.Error("flashcard should not be known")
	}
	if got := Kind("flashcard").DisplayName(); got != "flashcard" {
		t.Errorf("unknown DisplayName = %q", got)
	}
}

func TestConfigGet(t *testing.T) {
	c := Config{"correctIndex": nil, "correct_index": float64(2)}
	v, ok := c.Get("correctIndex", "correct_index")
	if !ok || v != float64(2) {
		t.Errorf("Get = %v, %v; want the first non-nil value", v, ok)
	}
	if _, ok := c.Get("answer"); ok {
		t.Error("Get(answer) should miss")
	}
	if !c.Has("correct_index") || c.Has("answer") {
		t.Error("Has mismatch")
	}
	var nilCfg Config
	if _, ok := nilCfg.Get("x"); ok {
		t.Error("nil config has nothing")
	}
}
