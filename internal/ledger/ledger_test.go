package ledger

import (
	"errors"
	"testing"

	"facops/internal/store"
	"facops/internal/testutil"
)

func TestApplyAtCreatesPositionAndBalance(t *testing.T) {
	st := testutil.SetupStore(t)
	pid := testutil.InsertProduct(t, st, "WID-100", "Widget")
	eng := New(st)

	item, err := eng.ApplyAt(pid, "WH-1", Movement{Delta: 50, MovementType: "in", CreatedBy: "admin"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if item.Quantity != 50 {
		t.Errorf("quantity = %d, want 50", item.Quantity)
	}
	if item.ProductCode != "WID-100" {
		t.Errorf("product code = %q, want WID-100", item.ProductCode)
	}

	item, err = eng.Apply(item.ID, Movement{Delta: -20, MovementType: "out"})
	if err != nil {
		t.Fatalf("apply out: %v", err)
	}
	if item.Quantity != 30 {
		t.Errorf("quantity after out = %d, want 30", item.Quantity)
	}
}

func TestApplyUnknownItem(t *testing.T) {
	st := testutil.SetupStore(t)
	eng := New(st)

	if _, err := eng.Apply(9999, Movement{Delta: 5, MovementType: "in"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var n int
	st.DB.QueryRow("SELECT COUNT(*) FROM inventory_movements").Scan(&n)
	if n != 0 {
		t.Errorf("movement count = %d, want 0", n)
	}
}

func TestApplyRejectsNegativeBalance(t *testing.T) {
	st := testutil.SetupStore(t)
	pid := testutil.InsertProduct(t, st, "WID-100", "Widget")
	eng := New(st)

	item, err := eng.ApplyAt(pid, "WH-1", Movement{Delta: 10, MovementType: "in"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := eng.Apply(item.ID, Movement{Delta: -25, MovementType: "out"}); !errors.Is(err, store.ErrConstraint) {
		t.Fatalf("err = %v, want ErrConstraint", err)
	}

	// The failed movement must leave no trace: balance and history unchanged.
	item, err = eng.ItemByID(item.ID)
	if err != nil {
		t.Fatalf("item: %v", err)
	}
	if item.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", item.Quantity)
	}
	moves, err := eng.Movements(item.ID, 0)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(moves) != 1 {
		t.Errorf("movement count = %d, want 1", len(moves))
	}
}

func TestApplyRejectsBadInput(t *testing.T) {
	st := testutil.SetupStore(t)
	pid := testutil.InsertProduct(t, st, "WID-100", "Widget")
	item := testutil.InsertInventory(t, st, pid, "WH-1", 0, 0)
	eng := New(st)

	if _, err := eng.Apply(item, Movement{Delta: 5, MovementType: "teleport"}); !errors.Is(err, store.ErrConstraint) {
		t.Errorf("unknown type: err = %v, want ErrConstraint", err)
	}
	if _, err := eng.Apply(item, Movement{Delta: 0, MovementType: "in"}); !errors.Is(err, store.ErrConstraint) {
		t.Errorf("zero delta: err = %v, want ErrConstraint", err)
	}
	// Unknown product fails the foreign key on position creation.
	if _, err := eng.ApplyAt(9999, "WH-1", Movement{Delta: 5, MovementType: "in"}); !errors.Is(err, store.ErrConstraint) {
		t.Errorf("unknown product: err = %v, want ErrConstraint", err)
	}
}

func TestReconstructMatchesBalance(t *testing.T) {
	st := testutil.SetupStore(t)
	pid := testutil.InsertProduct(t, st, "WID-100", "Widget")
	item := testutil.InsertInventory(t, st, pid, "WH-1", 0, 0)
	eng := New(st)

	deltas := []struct {
		d  int
		mt string
	}{{100, "in"}, {-30, "out"}, {5, "adjustment"}, {-15, "transfer"}}
	for _, m := range deltas {
		if _, err := eng.Apply(item, Movement{Delta: m.d, MovementType: m.mt}); err != nil {
			t.Fatalf("apply %+v: %v", m, err)
		}
	}

	sum, err := eng.Reconstruct(item)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	it, _ := eng.ItemByID(item)
	if sum != it.Quantity || sum != 60 {
		t.Errorf("reconstructed = %d, cached = %d, want both 60", sum, it.Quantity)
	}

	if _, err := eng.Reconstruct(9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing item: err = %v, want ErrNotFound", err)
	}
}

func TestBaselineLowStockScenario(t *testing.T) {
	st := testutil.SetupStore(t)
	pid := testutil.InsertProduct(t, st, "WID-100", "Widget")
	item := testutil.InsertInventory(t, st, pid, "WH-1", 500, 100)
	eng := New(st)

	it, err := eng.Apply(item, Movement{Delta: -450, MovementType: "out"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if it.Quantity != 50 {
		t.Errorf("quantity = %d, want 50", it.Quantity)
	}
	low, _ := eng.LowStock()
	if len(low) != 1 || low[0].ID != item {
		t.Fatalf("low stock should include the item: %+v", low)
	}

	it, err = eng.Apply(item, Movement{Delta: 30, MovementType: "in"})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if it.Quantity != 80 {
		t.Errorf("quantity = %d, want 80", it.Quantity)
	}
	low, _ = eng.LowStock()
	if len(low) != 1 {
		t.Errorf("80 <= 100 is still low stock, got %d items", len(low))
	}

	sum, err := eng.Reconstruct(item)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if sum != 80 {
		t.Errorf("reconstructed = %d, want 80 (baseline 500 - 450 + 30)", sum)
	}
}

func TestSetLimitsValidation(t *testing.T) {
	st := testutil.SetupStore(t)
	pid := testutil.InsertProduct(t, st, "WID-100", "Widget")
	item := testutil.InsertInventory(t, st, pid, "WH-1", 5, 0)
	eng := New(st)

	if err := eng.SetLimits(item, 50, 10); !errors.Is(err, store.ErrConstraint) {
		t.Errorf("max < min: err = %v, want ErrConstraint", err)
	}
	if err := eng.SetLimits(9999, 1, 10); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing item: err = %v, want ErrNotFound", err)
	}
	if err := eng.SetLimits(item, 10, 100); err != nil {
		t.Fatalf("set limits: %v", err)
	}
	it, _ := eng.ItemByID(item)
	if it.MinStock != 10 || it.MaxStock != 100 {
		t.Errorf("limits = %d/%d", it.MinStock, it.MaxStock)
	}
}

func TestMovementsNewestFirst(t *testing.T) {
	st := testutil.SetupStore(t)
	pid := testutil.InsertProduct(t, st, "WID-100", "Widget")
	eng := New(st)

	it, err := eng.ApplyAt(pid, "WH-1", Movement{Delta: 10, MovementType: "in"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	eng.Apply(it.ID, Movement{Delta: -3, MovementType: "out", ReferenceType: "work_order", ReferenceID: 7})

	moves, err := eng.Movements(it.ID, 10)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("len = %d, want 2", len(moves))
	}
	if moves[0].Quantity != -3 || moves[0].ReferenceType != "work_order" || moves[0].ReferenceID != 7 {
		t.Errorf("newest movement = %+v, want the out movement first", moves[0])
	}
}
