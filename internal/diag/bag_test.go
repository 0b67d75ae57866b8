package diag

import (
	"testing"

	"strata/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	d := Diagnostic{Code: InfMistypedAssign, Severity: SevError}
	if !bag.Add(d) || !bag.Add(d) {
		t.Fatalf("expected first two adds to succeed")
	}
	if bag.Add(d) {
		t.Fatalf("expected add beyond capacity to fail")
	}
	if bag.Len() != 2 {
		t.Fatalf("len = %d", bag.Len())
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(8)
	bag.Add(Diagnostic{Code: InfNullableDeref, Severity: SevError, Primary: source.Span{File: 0, Start: 40, End: 41}})
	bag.Add(Diagnostic{Code: ScopeRedeclaration, Severity: SevWarning, Primary: source.Span{File: 0, Start: 10, End: 11}})
	bag.Add(Diagnostic{Code: InfMistypedAssign, Severity: SevError, Primary: source.Span{File: 0, Start: 10, End: 11}})
	bag.Sort()

	items := bag.Items()
	if items[0].Code != InfMistypedAssign {
		t.Fatalf("expected error to sort before warning at same span, got %v", items[0].Code)
	}
	if items[2].Code != InfNullableDeref {
		t.Fatalf("expected later span last, got %v", items[2].Code)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	sp := source.Span{File: 0, Start: 5, End: 9}
	bag.Add(Diagnostic{Code: InfGlobalThis, Severity: SevError, Primary: sp})
	bag.Add(Diagnostic{Code: InfGlobalThis, Severity: SevError, Primary: sp})
	bag.Dedup()
	if bag.Len() != 1 {
		t.Fatalf("expected dedup to drop the repeat, len = %d", bag.Len())
	}
}

func TestDefaultSeverity(t *testing.T) {
	if RegInvalidPropOverride.DefaultSeverity() != SevWarning {
		t.Fatalf("override mismatch should be a warning")
	}
	if InfMistypedAssign.DefaultSeverity() != SevError {
		t.Fatalf("mistyped assignment should be an error")
	}
}

func TestReportBuilderEmitOnce(t *testing.T) {
	bag := NewBag(4)
	b := ReportError(&BagReporter{Bag: bag}, InfWrongArgCount, source.Span{}, "wanted 2 args")
	b.WithNote(source.Span{}, "declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected a single emission, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note lost")
	}
}
