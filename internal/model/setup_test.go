package model

import "testing"

func TestSetupMatrixLookupMissingPairDefaultsZero(t *testing.T) {
	sm := NewSetupMatrix()
	sm.Set("A", "B", 20)

	if got := sm.Lookup("A", "C"); got != 0 {
		t.Errorf("expected 0 for missing pair, got %d", got)
	}
}

func TestSetupMatrixLookupEmptyFromIsZero(t *testing.T) {
	sm := NewSetupMatrix()
	sm.Set("", "B", 99)

	if got := sm.Lookup("", "B"); got != 0 {
		t.Errorf("expected empty 'from' to always cost 0, got %d", got)
	}
}

func TestSetupMatrixLookupKnownPair(t *testing.T) {
	sm := NewSetupMatrix()
	sm.Set("A", "B", 20)

	if got := sm.Lookup("A", "B"); got != 20 {
		t.Errorf("expected 20, got %d", got)
	}
}

func TestSetupMatrixCloneIsIndependent(t *testing.T) {
	sm := NewSetupMatrix()
	sm.Set("A", "B", 20)

	clone := sm.Clone()
	clone.Set("A", "B", 999)

	if got := sm.Lookup("A", "B"); got != 20 {
		t.Errorf("mutating clone affected original: got %d", got)
	}
	if got := clone.Lookup("A", "B"); got != 999 {
		t.Errorf("expected clone to hold its own value, got %d", got)
	}
}
