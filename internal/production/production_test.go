package production

import (
	"errors"
	"testing"

	"facops/internal/store"
	"facops/internal/testutil"
)

func setup(t *testing.T) (*Engine, int64, int64, int64) {
	t.Helper()
	st := testutil.SetupStore(t)
	line := testutil.InsertLine(t, st, "Line A")
	prod := testutil.InsertProduct(t, st, "WID-100", "Widget")
	op := testutil.InsertUser(t, st, "op1", "operator")
	return New(st), line, prod, op
}

func TestRecordRun(t *testing.T) {
	eng, line, prod, op := setup(t)

	rec, err := eng.Record(RecordRequest{LineID: line, ProductID: prod, OperatorID: op, Quantity: 100, DefectCount: 5})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.Quantity != 100 || rec.DefectCount != 5 {
		t.Errorf("record = %+v", rec)
	}
	if rec.LineName != "Line A" || rec.ProductCode != "WID-100" {
		t.Errorf("joins missing: line=%q code=%q", rec.LineName, rec.ProductCode)
	}
	if rec.StartTime == "" {
		t.Errorf("start_time not defaulted")
	}
	if rec.Status != "completed" {
		t.Errorf("status = %q, want completed", rec.Status)
	}
}

func TestRecordRejections(t *testing.T) {
	eng, line, prod, _ := setup(t)

	cases := []struct {
		name string
		req  RecordRequest
	}{
		{"negative quantity", RecordRequest{LineID: line, ProductID: prod, Quantity: -1}},
		{"defects exceed quantity", RecordRequest{LineID: line, ProductID: prod, Quantity: 10, DefectCount: 11}},
		{"negative defects", RecordRequest{LineID: line, ProductID: prod, Quantity: 10, DefectCount: -1}},
		{"unknown line", RecordRequest{LineID: 9999, ProductID: prod, Quantity: 10}},
		{"unknown product", RecordRequest{LineID: line, ProductID: 9999, Quantity: 10}},
		{"unknown operator", RecordRequest{LineID: line, ProductID: prod, OperatorID: 9999, Quantity: 10}},
		{"bad status", RecordRequest{LineID: line, ProductID: prod, Quantity: 10, Status: "done"}},
	}
	for _, tc := range cases {
		if _, err := eng.Record(tc.req); !errors.Is(err, store.ErrConstraint) {
			t.Errorf("%s: err = %v, want ErrConstraint", tc.name, err)
		}
	}

	var n int
	// no rejected request may leave a row behind
	eng.store.DB.QueryRow("SELECT COUNT(*) FROM production_records").Scan(&n)
	if n != 0 {
		t.Errorf("record count = %d after rejections, want 0", n)
	}
}

func TestRecordZeroQuantityRun(t *testing.T) {
	eng, line, prod, _ := setup(t)

	// A scrapped run with zero output is a legitimate record.
	rec, err := eng.Record(RecordRequest{LineID: line, ProductID: prod, Quantity: 0, DefectCount: 0})
	if err != nil {
		t.Fatalf("zero run: %v", err)
	}
	if rec.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", rec.Quantity)
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	eng, line, prod, _ := setup(t)
	for i := 1; i <= 5; i++ {
		if _, err := eng.Record(RecordRequest{LineID: line, ProductID: prod, Quantity: i * 10}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	recent, err := eng.Recent(3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	if recent[0].Quantity != 50 || recent[2].Quantity != 30 {
		t.Errorf("order wrong: got %d, %d, %d", recent[0].Quantity, recent[1].Quantity, recent[2].Quantity)
	}
}

func TestRangeFiltersByDate(t *testing.T) {
	eng, line, prod, _ := setup(t)
	eng.Record(RecordRequest{LineID: line, ProductID: prod, Quantity: 10})

	// Backdate one record to yesterday.
	res, err := eng.store.DB.Exec(`INSERT INTO production_records
		(line_id, product_id, quantity, created_at) VALUES (?, ?, 99, datetime('now', '-1 day'))`,
		line, prod)
	if err != nil {
		t.Fatalf("backdate insert: %v", err)
	}
	res.LastInsertId()

	today := todayDate(t, eng.store)
	recs, err := eng.Range(today, today)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(recs) != 1 || recs[0].Quantity != 10 {
		t.Errorf("range returned %d records, want only today's", len(recs))
	}
}

func todayDate(t *testing.T, st *store.Store) string {
	t.Helper()
	var d string
	if err := st.DB.QueryRow("SELECT date('now')").Scan(&d); err != nil {
		t.Fatalf("date: %v", err)
	}
	return d
}
