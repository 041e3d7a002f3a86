package stats

import (
	"testing"

	"facops/internal/store"
	"facops/internal/testutil"
	"facops/internal/workorder"
)

func today(t *testing.T, st *store.Store) string {
	t.Helper()
	var d string
	if err := st.DB.QueryRow("SELECT date('now')").Scan(&d); err != nil {
		t.Fatalf("date: %v", err)
	}
	return d
}

func TestForDateComputesRates(t *testing.T) {
	st := testutil.SetupStore(t)
	line := testutil.InsertLine(t, st, "Line A")
	prod := testutil.InsertProduct(t, st, "WID-100", "Widget")

	st.DB.Exec("INSERT INTO production_records (line_id, product_id, quantity, defect_count) VALUES (?, ?, 60, 3)", line, prod)
	st.DB.Exec("INSERT INTO production_records (line_id, product_id, quantity, defect_count) VALUES (?, ?, 40, 2)", line, prod)

	eng := New(st)
	s, err := eng.ForDate(today(t, st))
	if err != nil {
		t.Fatalf("for date: %v", err)
	}
	if s.TotalProduced != 100 || s.TotalDefects != 5 {
		t.Errorf("totals = %d/%d, want 100/5", s.TotalProduced, s.TotalDefects)
	}
	if s.Efficiency != 95.0 {
		t.Errorf("efficiency = %v, want 95.0", s.Efficiency)
	}
	if s.DefectRate != 5.0 {
		t.Errorf("defect rate = %v, want 5.0", s.DefectRate)
	}
}

func TestForDateEmptyDayReportsZeroes(t *testing.T) {
	st := testutil.SetupStore(t)
	eng := New(st)

	s, err := eng.ForDate("2020-01-01")
	if err != nil {
		t.Fatalf("for date: %v", err)
	}
	if s.TotalProduced != 0 || s.TotalDefects != 0 || s.Efficiency != 0 || s.DefectRate != 0 {
		t.Errorf("empty day stats = %+v, want all zeroes", s)
	}
}

func TestForDateIsIdempotent(t *testing.T) {
	st := testutil.SetupStore(t)
	line := testutil.InsertLine(t, st, "Line A")
	prod := testutil.InsertProduct(t, st, "WID-100", "Widget")
	st.DB.Exec("INSERT INTO production_records (line_id, product_id, quantity, defect_count) VALUES (?, ?, 10, 1)", line, prod)

	eng := New(st)
	d := today(t, st)
	a, err := eng.ForDate(d)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	b, err := eng.ForDate(d)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if *a != *b {
		t.Errorf("repeated calls differ: %+v vs %+v", a, b)
	}
}

func TestForDateCountsActiveOrders(t *testing.T) {
	st := testutil.SetupStore(t)
	line := testutil.InsertLine(t, st, "Line A")
	prod := testutil.InsertProduct(t, st, "WID-100", "Widget")

	wos := workorder.New(st)
	a, _ := wos.Create(workorder.CreateRequest{LineID: line, ProductID: prod, QuantityRequested: 10})
	wos.Create(workorder.CreateRequest{LineID: line, ProductID: prod, QuantityRequested: 20})
	done, _ := wos.Create(workorder.CreateRequest{LineID: line, ProductID: prod, QuantityRequested: 30})
	wos.Transition(a.ID, "in_progress", nil)
	wos.Transition(done.ID, "in_progress", nil)
	wos.Transition(done.ID, "completed", nil)

	eng := New(st)
	s, err := eng.ForDate(today(t, st))
	if err != nil {
		t.Fatalf("for date: %v", err)
	}
	if s.ActiveOrders != 2 {
		t.Errorf("active orders = %d, want 2", s.ActiveOrders)
	}
}

func TestByLine(t *testing.T) {
	st := testutil.SetupStore(t)
	la := testutil.InsertLine(t, st, "Line A")
	lb := testutil.InsertLine(t, st, "Line B")
	prod := testutil.InsertProduct(t, st, "WID-100", "Widget")

	st.DB.Exec("INSERT INTO production_records (line_id, product_id, quantity, defect_count) VALUES (?, ?, 80, 8)", la, prod)
	st.DB.Exec("INSERT INTO production_records (line_id, product_id, quantity, defect_count) VALUES (?, ?, 20, 0)", lb, prod)

	eng := New(st)
	sums, err := eng.ByLine(today(t, st))
	if err != nil {
		t.Fatalf("by line: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("len = %d, want 2", len(sums))
	}
	if sums[0].LineName != "Line A" || sums[0].Efficiency != 90.0 {
		t.Errorf("line A summary = %+v", sums[0])
	}
	if sums[1].TotalProduced != 20 || sums[1].Efficiency != 100.0 {
		t.Errorf("line B summary = %+v", sums[1])
	}
}
