package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/firewoodbank/fwb/internal/db"
	"github.com/firewoodbank/fwb/internal/inventory"
	"github.com/firewoodbank/fwb/internal/models"
	"github.com/firewoodbank/fwb/internal/workorder"
)

func testRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := gdb.AutoMigrate(db.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	coord := &workorder.Coordinator{
		DB:     gdb,
		Ledger: &inventory.Ledger{WoodCategory: "firewood"},
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	registerRoutes(router, gdb, coord)
	return router, gdb
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedStaff(t *testing.T, gdb *gorm.DB) *models.User {
	t.Helper()
	u := models.User{
		ID:                  uuid.NewString(),
		Name:                "Staff Member",
		Role:                "staff",
		DriverLicenseStatus: "valid",
	}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &u
}

func TestCreateAndGetOrder(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/orders", map[string]any{
		"client_name":         "Ada Tremblay",
		"delivery_size_cords": 1.5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	var created models.WorkOrder
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != "draft" {
		t.Errorf("status = %q, want draft", created.Status)
	}

	w = doJSON(t, router, http.MethodGet, "/api/orders/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
}

func TestCreateOrder_Invalid(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/orders", map[string]any{
		"client_name": "Ada Tremblay",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error_kind"] != "invalid_request" {
		t.Errorf("error_kind = %q", resp["error_kind"])
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error_kind"] != "not_found" {
		t.Errorf("error_kind = %q, want not_found", resp["error_kind"])
	}
}

func TestTransitionEndpoint(t *testing.T) {
	router, gdb := testRouter(t)
	staff := seedStaff(t, gdb)

	item := models.InventoryItem{
		ID:             uuid.NewString(),
		Name:           "Split firewood",
		Category:       "firewood",
		Unit:           "cords",
		QuantityOnHand: 5,
	}
	if err := gdb.Create(&item).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	date := time.Now().Add(48 * time.Hour)
	order, err := workorder.Create(gdb, workorder.CreateOpts{
		ClientName:        "Ada Tremblay",
		DeliverySizeCords: 2,
		ScheduledDate:     &date,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := workorder.Assign(gdb, order.ID, []string{staff.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/orders/%s/transition", order.ID), map[string]any{
		"status":     "scheduled",
		"actor_id":   staff.ID,
		"actor_role": "staff",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		From             string `json:"from"`
		To               string `json:"to"`
		InventoryApplied bool   `json:"inventory_applied"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.From != "draft" || resp.To != "scheduled" {
		t.Errorf("from/to = %s/%s", resp.From, resp.To)
	}
	if !resp.InventoryApplied {
		t.Error("expected inventory to be applied")
	}

	var got models.InventoryItem
	if err := gdb.First(&got, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if got.ReservedQuantity != 2 {
		t.Errorf("reserved = %v, want 2", got.ReservedQuantity)
	}
}

func TestTransitionEndpoint_RejectionStatuses(t *testing.T) {
	router, gdb := testRouter(t)
	staff := seedStaff(t, gdb)

	order, err := workorder.Create(gdb, workorder.CreateOpts{
		ClientName:        "Ada Tremblay",
		DeliverySizeCords: 1,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	tests := []struct {
		name string
		body map[string]any
		want int
		kind string
	}{
		{
			name: "illegal transition",
			body: map[string]any{"status": "delivered", "actor_id": staff.ID, "actor_role": "staff"},
			want: http.StatusConflict,
			kind: "illegal_transition",
		},
		{
			name: "insufficient permission",
			body: map[string]any{"status": "cancelled", "actor_id": "d-1", "actor_role": "driver"},
			want: http.StatusForbidden,
			kind: "insufficient_permission",
		},
		{
			name: "missing schedule date",
			body: map[string]any{"status": "scheduled", "actor_id": staff.ID, "actor_role": "staff"},
			want: http.StatusUnprocessableEntity,
			kind: "missing_required_field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/orders/%s/transition", order.ID), tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tt.want, w.Body.String())
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["error_kind"] != tt.kind {
				t.Errorf("error_kind = %q, want %q", resp["error_kind"], tt.kind)
			}
		})
	}
}

func TestHistoryEndpoint(t *testing.T) {
	router, gdb := testRouter(t)
	staff := seedStaff(t, gdb)

	order, err := workorder.Create(gdb, workorder.CreateOpts{
		ClientName:        "Ada Tremblay",
		DeliverySizeCords: 1,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/orders/%s/transition", order.ID), map[string]any{
		"status":     "cancelled",
		"actor_id":   staff.ID,
		"actor_role": "staff",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("transition status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/orders/%s/history", order.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	var resp struct {
		History []models.TransitionRecord `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(resp.History))
	}
	if resp.History[0].ToStatus != "cancelled" {
		t.Errorf("to_status = %q", resp.History[0].ToStatus)
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/orders/%s/history", uuid.NewString()), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown order history status = %d, want 404", w.Code)
	}
}

func TestAssignEndpoint(t *testing.T) {
	router, gdb := testRouter(t)
	staff := seedStaff(t, gdb)

	order, err := workorder.Create(gdb, workorder.CreateOpts{
		ClientName:        "Ada Tremblay",
		DeliverySizeCords: 1,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/orders/%s/assignees", order.ID), map[string]any{
		"user_ids": []string{staff.ID},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var got models.WorkOrder
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Assignees) != 1 || got.Assignees[0].UserID != staff.ID {
		t.Errorf("assignees = %+v", got.Assignees)
	}
}

func TestInventoryEndpoints(t *testing.T) {
	router, gdb := testRouter(t)

	items := []models.InventoryItem{
		{ID: uuid.NewString(), Name: "Split firewood", Category: "firewood", Unit: "cords", QuantityOnHand: 10, ReorderThreshold: 2},
		{ID: uuid.NewString(), Name: "Kindling", Category: "firewood", Unit: "bundles", QuantityOnHand: 1, ReorderThreshold: 5},
	}
	for i := range items {
		if err := gdb.Create(&items[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/inventory", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("inventory status = %d", w.Code)
	}
	var listResp struct {
		Items []models.InventoryItem `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listResp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(listResp.Items))
	}

	w = doJSON(t, router, http.MethodGet, "/api/inventory/low-stock", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("low-stock status = %d", w.Code)
	}
	var lowResp struct {
		Items []models.InventoryItem `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &lowResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lowResp.Items) != 1 || lowResp.Items[0].Name != "Kindling" {
		t.Errorf("low stock = %+v", lowResp.Items)
	}
}

func TestListOrders_Filters(t *testing.T) {
	router, gdb := testRouter(t)

	for _, name := range []string{"Ada Tremblay", "Ben Okafor"} {
		if _, err := workorder.Create(gdb, workorder.CreateOpts{
			ClientName:        name,
			DeliverySizeCords: 1,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/orders?status=draft", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Orders []models.WorkOrder `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Orders) != 2 {
		t.Errorf("orders = %d, want 2", len(resp.Orders))
	}

	w = doJSON(t, router, http.MethodGet, "/api/orders?status=completed", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Orders) != 0 {
		t.Errorf("completed orders = %d, want 0", len(resp.Orders))
	}
}
