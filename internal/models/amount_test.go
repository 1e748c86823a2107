package models

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "zero", input: "0", want: "0"},
		{name: "positive", input: "1500", want: "1500"},
		{name: "negative", input: "-42", want: "-42"},
		{name: "surrounding space", input: " 7 ", want: "7"},
		{name: "int128 max", input: "170141183460469231731687303715884105727", want: "170141183460469231731687303715884105727"},
		{name: "int128 min", input: "-170141183460469231731687303715884105728", want: "-170141183460469231731687303715884105728"},
		{name: "above int128 max", input: "170141183460469231731687303715884105728", wantErr: ErrAmountOutOfRange},
		{name: "below int128 min", input: "-170141183460469231731687303715884105729", wantErr: ErrAmountOutOfRange},
		{name: "fraction", input: "1.5", wantErr: ErrAmountNotIntegral},
		{name: "trailing zero fraction", input: "2.0", want: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseAmount(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseAmount("abc"); err == nil {
		t.Error("ParseAmount(abc) expected error")
	}
}

func TestUserIsMemberOf(t *testing.T) {
	u := NewUser("alice")
	if u.IsMemberOf(1) {
		t.Error("new user should have no memberships")
	}
	u.GroupMemberships = []uint64{3, 7}
	if !u.IsMemberOf(7) || u.IsMemberOf(4) {
		t.Errorf("IsMemberOf mismatch for %v", u.GroupMemberships)
	}
	if !u.TotalBalance.IsZero() {
		t.Errorf("new user balance = %s, want 0", u.TotalBalance)
	}
}

func TestParsePlanKind(t *testing.T) {
	for _, k := range []PlanKind{KindFlexi, KindLock, KindGoal, KindGroup} {
		got, err := ParsePlanKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParsePlanKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParsePlanKind("weekly"); err == nil {
		t.Error("ParsePlanKind(weekly) expected error")
	}
}
