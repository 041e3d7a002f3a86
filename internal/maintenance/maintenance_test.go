package maintenance

import (
	"errors"
	"testing"

	"facops/internal/store"
	"facops/internal/testutil"
)

func TestLogAndComplete(t *testing.T) {
	st := testutil.SetupStore(t)
	line := testutil.InsertLine(t, st, "Line A")
	eng := New(st)

	rec, err := eng.Log(LogRequest{LineID: line, Type: "preventive", Description: "Belt replacement", Technician: "jo"})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if rec.Status != "scheduled" || rec.EndTime != nil {
		t.Errorf("new record = %+v", rec)
	}
	if rec.LineName != "Line A" {
		t.Errorf("line name = %q", rec.LineName)
	}

	rec, err = eng.Complete(rec.ID, 250.50)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if rec.Status != "completed" || rec.EndTime == nil || rec.Cost != 250.50 {
		t.Errorf("completed record = %+v", rec)
	}

	// Completing twice is a no-op reported as not found.
	if _, err := eng.Complete(rec.ID, 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double complete: err = %v, want ErrNotFound", err)
	}
}

func TestLogRejections(t *testing.T) {
	st := testutil.SetupStore(t)
	line := testutil.InsertLine(t, st, "Line A")
	eng := New(st)

	if _, err := eng.Log(LogRequest{LineID: line, Type: "cosmetic", Description: "x"}); !errors.Is(err, store.ErrConstraint) {
		t.Errorf("bad type: err = %v, want ErrConstraint", err)
	}
	if _, err := eng.Log(LogRequest{LineID: line, Type: "preventive"}); !errors.Is(err, store.ErrConstraint) {
		t.Errorf("empty description: err = %v, want ErrConstraint", err)
	}
	if _, err := eng.Log(LogRequest{LineID: 9999, Type: "preventive", Description: "x"}); !errors.Is(err, store.ErrConstraint) {
		t.Errorf("unknown line: err = %v, want ErrConstraint", err)
	}
}

func TestByLineAndOpen(t *testing.T) {
	st := testutil.SetupStore(t)
	la := testutil.InsertLine(t, st, "Line A")
	lb := testutil.InsertLine(t, st, "Line B")
	eng := New(st)

	a, _ := eng.Log(LogRequest{LineID: la, Type: "corrective", Description: "Motor fault"})
	eng.Log(LogRequest{LineID: lb, Type: "preventive", Description: "Inspection"})
	eng.Complete(a.ID, 100)

	byA, err := eng.ByLine(la)
	if err != nil {
		t.Fatalf("by line: %v", err)
	}
	if len(byA) != 1 || byA[0].ID != a.ID {
		t.Errorf("by line = %d records", len(byA))
	}

	open, err := eng.Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(open) != 1 || open[0].LineID != lb {
		t.Errorf("open = %+v, want only line B's record", open)
	}
}
