package state

import (
	"reflect"
	"testing"
)

func TestViewState_CollapsedByDefault(t *testing.T) {
	vs := NewViewState()
	if vs.IsExpanded(1) {
		t.Fatalf("IsExpanded(1) = true on a fresh view state")
	}
	var nilState *ViewState
	if nilState.IsExpanded(1) {
		t.Fatalf("nil view state should report collapsed")
	}
}

func TestViewState_SetExpandedIsIdempotent(t *testing.T) {
	vs := NewViewState()
	vs.SetExpanded(4, true)
	vs.SetExpanded(4, true)
	if !vs.IsExpanded(4) || len(vs.Expanded()) != 1 {
		t.Fatalf("Expanded() = %v, want [4]", vs.Expanded())
	}
	vs.SetExpanded(4, false)
	vs.SetExpanded(4, false)
	if vs.IsExpanded(4) || len(vs.Expanded()) != 0 {
		t.Fatalf("Expanded() = %v, want empty", vs.Expanded())
	}
}

func TestViewState_ToggleSequences(t *testing.T) {
	cases := []struct {
		name    string
		toggles int
		want    bool
	}{
		{"none", 0, false},
		{"once", 1, true},
		{"twice", 2, false},
		{"three times", 3, true},
		{"many even", 10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vs := NewViewState()
			last := false
			for i := 0; i < tc.toggles; i++ {
				last = vs.Toggle(9)
			}
			if got := vs.IsExpanded(9); got != tc.want {
				t.Fatalf("IsExpanded after %d toggles = %v, want %v", tc.toggles, got, tc.want)
			}
			if tc.toggles > 0 && last != tc.want {
				t.Fatalf("Toggle returned %v, want %v", last, tc.want)
			}
		})
	}
}

func TestViewState_ExpandedSortedAndReset(t *testing.T) {
	var vs ViewState // zero value must be usable
	vs.SetExpanded(30, true)
	vs.SetExpanded(2, true)
	vs.SetExpanded(17, true)
	if got := vs.Expanded(); !reflect.DeepEqual(got, []int64{2, 17, 30}) {
		t.Fatalf("Expanded() = %v, want [2 17 30]", got)
	}
	vs.Reset()
	if len(vs.Expanded()) != 0 {
		t.Fatalf("Reset left %v expanded", vs.Expanded())
	}
}

func TestViewState_IndependentInstances(t *testing.T) {
	a, b := NewViewState(), NewViewState()
	a.SetExpanded(1, true)
	if b.IsExpanded(1) {
		t.Fatalf("view states share storage")
	}
}

func TestViewState_NilIsCollapsedAndInert(t *testing.T) {
	var vs *ViewState
	vs.SetExpanded(1, true)
	if vs.Toggle(1) {
		t.Fatalf("Toggle on nil view state reported expanded")
	}
	vs.Reset()
	if vs.IsExpanded(1) || vs.Expanded() != nil {
		t.Fatalf("nil view state should report nothing expanded")
	}
}
