package ratelimit

import "testing"

func TestAllowDrainsBucket(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("call %d should pass with capacity 3", i+1)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Fatalf("drained bucket should deny")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first call for a should pass")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("a is drained")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("b starts with a full bucket")
	}
}
