package mapping

import (
	"testing"

	"github.com/octylFractal/stacked-portrayals/types"
)

func newTestMapper(classes map[string]ClassMapping) *BaseMapper {
	return &BaseMapper{Data: Mappings{Classes: classes}}
}

// TestUnscopedAmbiguitySuppression covers testable property 6: a lookup
// for a class not present in the mappings, whose method name occurs in two
// or more classes, returns an empty list.
func TestUnscopedAmbiguitySuppression(t *testing.T) {
	m := newTestMapper(map[string]ClassMapping{
		"a.B": {ToName: "x.Y", Methods: map[string]MethodEntry{
			methodEntry("d", "m1").From.Key(): methodEntry("d", "m1"),
		}},
		"a.C": {ToName: "x.Z", Methods: map[string]MethodEntry{
			methodEntry("d", "m2").From.Key(): methodEntry("d", "m2"),
		}},
	})
	got := m.MapMethod("Unknown", "d", nil)
	if len(got) != 0 {
		t.Errorf("expected ambiguous unscoped lookup to be suppressed, got %#v", got)
	}
}

func TestUnscopedUniqueFallback(t *testing.T) {
	m := newTestMapper(map[string]ClassMapping{
		"a.B": {ToName: "x.Y", Methods: map[string]MethodEntry{
			methodEntry("d", "m1").From.Key(): methodEntry("d", "m1"),
		}},
	})
	got := m.MapMethod("Unknown", "d", nil)
	if len(got) != 1 || got[0].ID.Name != "m1" {
		t.Errorf("expected unique unscoped fallback, got %#v", got)
	}
}

func TestScopedLookupPreferredOverUnscoped(t *testing.T) {
	m := newTestMapper(map[string]ClassMapping{
		"a.B": {ToName: "x.Y", Methods: map[string]MethodEntry{
			methodEntry("d", "m1").From.Key(): methodEntry("d", "m1"),
		}},
		"a.C": {ToName: "x.Z", Methods: map[string]MethodEntry{
			methodEntry("d", "m2").From.Key(): methodEntry("d", "m2"),
		}},
	})
	got := m.MapMethod("a.B", "d", nil)
	if len(got) != 1 || got[0].ID.Name != "m1" {
		t.Errorf("expected scoped lookup, got %#v", got)
	}
}

func methodEntry(from, to string) MethodEntry {
	return MethodEntry{
		From: types.MethodId{Name: from},
		To:   types.MethodId{Name: to},
	}
}
