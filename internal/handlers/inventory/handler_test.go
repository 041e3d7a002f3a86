package inventory

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"facops/internal/ledger"
	"facops/internal/models"
	"facops/internal/testutil"
	"facops/internal/websocket"
)

func setupHandler(t *testing.T) (*Handler, int64) {
	t.Helper()
	st := testutil.SetupStore(t)
	pid := testutil.InsertProduct(t, st, "WID-100", "Widget")
	return &Handler{Ledger: ledger.New(st), Hub: websocket.NewHub()}, pid
}

func TestMoveEndpoint(t *testing.T) {
	h, pid := setupHandler(t)

	body, _ := json.Marshal(map[string]interface{}{
		"product_id": pid, "location": "WH-1", "delta": 40, "movement_type": "in",
	})
	req := httptest.NewRequest("POST", "/api/v1/inventory/move", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Move(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data models.InventoryItem `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Quantity != 40 {
		t.Errorf("quantity = %d, want 40", resp.Data.Quantity)
	}
}

func TestMoveEndpointValidation(t *testing.T) {
	h, pid := setupHandler(t)

	cases := []struct {
		name string
		body map[string]interface{}
		code int
	}{
		{"missing type", map[string]interface{}{"product_id": pid, "delta": 5}, 400},
		{"bad type", map[string]interface{}{"product_id": pid, "delta": 5, "movement_type": "warp"}, 400},
		{"zero delta", map[string]interface{}{"product_id": pid, "movement_type": "in", "delta": 0}, 400},
		{"negative balance", map[string]interface{}{"product_id": pid, "movement_type": "out", "delta": -5}, 422},
	}
	for _, tc := range cases {
		body, _ := json.Marshal(tc.body)
		req := httptest.NewRequest("POST", "/api/v1/inventory/move", bytes.NewReader(body))
		w := httptest.NewRecorder()
		h.Move(w, req)
		if w.Code != tc.code {
			t.Errorf("%s: status = %d, want %d (body %s)", tc.name, w.Code, tc.code, w.Body.String())
		}
	}
}

func TestListAndLowStockEndpoint(t *testing.T) {
	h, pid := setupHandler(t)
	item, err := h.Ledger.ApplyAt(pid, "WH-1", ledger.Movement{Delta: 5, MovementType: "in"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	h.Ledger.SetLimits(item.ID, 10, 100)

	req := httptest.NewRequest("GET", "/api/v1/inventory", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != 200 {
		t.Fatalf("list status = %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/v1/inventory?low_stock=true", nil)
	w = httptest.NewRecorder()
	h.List(w, req)
	var resp struct {
		Data []models.InventoryItem `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data) != 1 {
		t.Errorf("low stock = %d items, want 1", len(resp.Data))
	}
}

func TestAuditEndpoint(t *testing.T) {
	h, pid := setupHandler(t)
	item, _ := h.Ledger.ApplyAt(pid, "WH-1", ledger.Movement{Delta: 30, MovementType: "in"})
	h.Ledger.Apply(item.ID, ledger.Movement{Delta: -10, MovementType: "out"})

	req := httptest.NewRequest("GET", "/api/v1/inventory/1/audit", nil)
	w := httptest.NewRecorder()
	h.Audit(w, req, item.ID)

	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Data struct {
			Cached        int  `json:"cached"`
			Reconstructed int  `json:"reconstructed"`
			Consistent    bool `json:"consistent"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data.Consistent || resp.Data.Cached != 20 || resp.Data.Reconstructed != 20 {
		t.Errorf("audit = %+v", resp.Data)
	}
}
