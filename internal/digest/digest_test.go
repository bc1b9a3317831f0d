package digest

import (
	"strings"
	"testing"
	"time"

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
	if err := db.AutoMigrate(
		&models.WorkOrder{},
		&models.TransitionRecord{},
		&models.InventoryItem{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func TestBuildDaily_QuietPeriodSuppressed(t *testing.T) {
	db := testDB(t)
	ev, err := BuildDaily(db)
	if err != nil {
		t.Fatalf("BuildDaily: %v", err)
	}
	if ev != nil {
		t.Errorf("event = %+v, want nil for quiet period", ev)
	}
}

func TestBuildDaily_CountsActivity(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	old := now.Add(-48 * time.Hour)

	// One delivery completed an hour ago.
	done := now.Add(-time.Hour)
	db.Create(&models.WorkOrder{
		ID: uuid.NewString(), ClientName: "A", Status: "completed",
		DeliverySizeCords: 1.5, CompletedAt: &done,
	})
	// One pickup completed within the window.
	db.Create(&models.WorkOrder{
		ID: uuid.NewString(), ClientName: "B", Status: "picked_up",
		PickupQuantityCords: 0.5, IsPickup: true, CompletedAt: &done,
	})
	// Completed outside the window: excluded.
	db.Create(&models.WorkOrder{
		ID: uuid.NewString(), ClientName: "C", Status: "completed",
		DeliverySizeCords: 3, CompletedAt: &old,
	})
	// A scheduling transition within the window.
	db.Create(&models.TransitionRecord{
		WorkOrderID: "wo-x", FromStatus: "draft", ToStatus: "scheduled",
	})

	ev, err := BuildDaily(db)
	if err != nil {
		t.Fatalf("BuildDaily: %v", err)
	}
	if ev == nil {
		t.Fatal("event = nil, want digest")
	}
	if !strings.Contains(ev.Body, "Scheduled: 1  Completed: 2  Cancelled: 0") {
		t.Errorf("body = %q, want counts line", ev.Body)
	}
	if !strings.Contains(ev.Body, "Cords delivered: 2.00") {
		t.Errorf("body = %q, want 2.00 cords (1.5 delivery + 0.5 pickup)", ev.Body)
	}
}

func TestBuildDaily_LowStockWarns(t *testing.T) {
	db := testDB(t)
	db.Create(&models.InventoryItem{
		ID: uuid.NewString(), Name: "Split firewood", Category: "firewood",
		Unit: "cords", QuantityOnHand: 2, ReservedQuantity: 1.5, ReorderThreshold: 1,
	})

	ev, err := BuildDaily(db)
	if err != nil {
		t.Fatalf("BuildDaily: %v", err)
	}
	if ev == nil {
		t.Fatal("event = nil, want low-stock digest even with no order activity")
	}
	if !strings.Contains(ev.Body, "Low stock:") {
		t.Errorf("body = %q, want low stock section", ev.Body)
	}
	if !strings.Contains(ev.Body, "0.50 cords free") {
		t.Errorf("body = %q, want free quantity", ev.Body)
	}
}

func TestNextCronDuration(t *testing.T) {
	if d := nextCronDuration("*/5 * * * *"); d <= 0 || d > 5*time.Minute {
		t.Errorf("duration = %v, want within (0, 5m]", d)
	}
	if d := nextCronDuration("not a cron"); d != 0 {
		t.Errorf("duration = %v, want 0 for parse error", d)
	}
}
