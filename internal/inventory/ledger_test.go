package inventory

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/firewoodbank/fwb/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.InventoryItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedItem(t *testing.T, db *gorm.DB, name, category string, onHand, reserved float64) *models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		ID:               uuid.NewString(),
		Name:             name,
		Category:         category,
		Unit:             "cords",
		QuantityOnHand:   onHand,
		ReservedQuantity: reserved,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item %s: %v", name, err)
	}
	return &item
}

func TestAdjust_AppliesDeltas(t *testing.T) {
	db := testDB(t)
	l := &Ledger{WoodCategory: "firewood"}
	item := seedItem(t, db, "Split firewood", "firewood", 5, 0)

	res, err := l.Adjust(db, item, 1.0, 0)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if res.Reserved != 1.0 || res.OnHand != 5 {
		t.Errorf("result = %v/%v, want 1/5", res.Reserved, res.OnHand)
	}
	if res.Clamped || res.OverReserved {
		t.Errorf("unexpected warning flags: %+v", res)
	}

	var stored models.InventoryItem
	db.Where("id = ?", item.ID).First(&stored)
	if stored.ReservedQuantity != 1.0 || stored.QuantityOnHand != 5 {
		t.Errorf("stored = %v/%v, want 1/5", stored.ReservedQuantity, stored.QuantityOnHand)
	}
	if stored.Version != 2 {
		t.Errorf("version = %d, want 2", stored.Version)
	}
}

func TestAdjust_ClampsAtZero(t *testing.T) {
	db := testDB(t)
	l := &Ledger{WoodCategory: "firewood"}
	item := seedItem(t, db, "Split firewood", "firewood", 0.5, 0.25)

	res, err := l.Adjust(db, item, -1.0, -1.0)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if res.Reserved != 0 || res.OnHand != 0 {
		t.Errorf("result = %v/%v, want 0/0", res.Reserved, res.OnHand)
	}
	if !res.Clamped {
		t.Error("Clamped = false, want true")
	}
	if res.Warning() == "" {
		t.Error("Warning() empty, want clamp message")
	}
}

func TestAdjust_ReportsOverReservation(t *testing.T) {
	db := testDB(t)
	l := &Ledger{WoodCategory: "firewood"}
	item := seedItem(t, db, "Split firewood", "firewood", 2, 1.5)

	res, err := l.Adjust(db, item, 1.0, 0)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if !res.OverReserved {
		t.Error("OverReserved = false, want true (2.5 reserved of 2 on hand)")
	}
	if res.Clamped {
		t.Error("Clamped = true, want false")
	}
	if res.Warning() == "" {
		t.Error("Warning() empty, want over-reservation message")
	}
}

func TestActiveWoodItem_Resolution(t *testing.T) {
	db := testDB(t)
	l := &Ledger{WoodCategory: "firewood"}

	// No item at all.
	item, err := l.ActiveWoodItem(db)
	if err != nil {
		t.Fatalf("ActiveWoodItem: %v", err)
	}
	if item != nil {
		t.Fatalf("item = %+v, want nil with empty table", item)
	}

	seedItem(t, db, "Bar oil", "supplies", 10, 0)
	deleted := seedItem(t, db, "Aged firewood", "firewood", 3, 0)
	db.Model(&models.InventoryItem{}).Where("id = ?", deleted.ID).Update("is_deleted", true)
	want := seedItem(t, db, "Split firewood", "firewood", 5, 0)

	item, err = l.ActiveWoodItem(db)
	if err != nil {
		t.Fatalf("ActiveWoodItem: %v", err)
	}
	if item == nil || item.ID != want.ID {
		t.Errorf("resolved %+v, want %s (active firewood item)", item, want.ID)
	}
}

func TestList_SkipsDeleted(t *testing.T) {
	db := testDB(t)
	seedItem(t, db, "Bar oil", "supplies", 10, 0)
	gone := seedItem(t, db, "Old helmets", "safety", 2, 0)
	db.Model(&models.InventoryItem{}).Where("id = ?", gone.ID).Update("is_deleted", true)

	items, err := List(db)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Bar oil" {
		t.Errorf("List = %d items, want just Bar oil", len(items))
	}
}

func TestLowStock_CountsReservations(t *testing.T) {
	db := testDB(t)

	// 5 on hand, 4 reserved, threshold 2: only 1 free, low.
	low := seedItem(t, db, "Split firewood", "firewood", 5, 4)
	db.Model(&models.InventoryItem{}).Where("id = ?", low.ID).Update("reorder_threshold", 2)

	// 5 on hand, nothing reserved, threshold 2: fine.
	ok := seedItem(t, db, "Bar oil", "supplies", 5, 0)
	db.Model(&models.InventoryItem{}).Where("id = ?", ok.ID).Update("reorder_threshold", 2)

	items, err := LowStock(db)
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(items) != 1 || items[0].ID != low.ID {
		t.Errorf("LowStock = %d items, want just the reserved-out firewood", len(items))
	}
}
