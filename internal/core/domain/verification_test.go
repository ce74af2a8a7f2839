package domain

import "testing"

func TestRequestStateValid(t *testing.T) {
	tests := []struct {
		state RequestState
		valid bool
	}{
		{StatePending, true},
		{StateApproved, true},
		{StateRejected, true},
		{RequestState(""), false},
		{RequestState("APPROVED"), false},
		{RequestState("pendiente"), false},
	}

	for _, tt := range tests {
		if got := tt.state.Valid(); got != tt.valid {
			t.Errorf("Valid(%q) = %v, expected %v", tt.state, got, tt.valid)
		}
	}
}

func TestRequestStateTerminal(t *testing.T) {
	if StatePending.Terminal() {
		t.Error("PENDIENTE must not be terminal")
	}
	if !StateApproved.Terminal() {
		t.Error("APROBADO must be terminal")
	}
	if !StateRejected.Terminal() {
		t.Error("RECHAZADO must be terminal")
	}
}
