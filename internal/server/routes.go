package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/firewoodbank/fwb/internal/audit"
	"github.com/firewoodbank/fwb/internal/inventory"
	"github.com/firewoodbank/fwb/internal/workorder"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, coord *workorder.Coordinator) {
	api := router.Group("/api")

	api.POST("/orders", handleCreateOrder(db))
	api.GET("/orders", handleListOrders(db))
	api.GET("/orders/:id", handleGetOrder(db))
	api.POST("/orders/:id/transition", handleTransition(coord))
	api.GET("/orders/:id/history", handleHistory(db))
	api.POST("/orders/:id/assignees", handleAssign(db))

	api.GET("/inventory", handleInventory(db))
	api.GET("/inventory/low-stock", handleLowStock(db))
	api.GET("/audit", handleAudit(db))
}

type createOrderRequest struct {
	ClientID            string   `json:"client_id"`
	ClientNumber        string   `json:"client_number"`
	ClientName          string   `json:"client_name"`
	DeliverySizeCords   float64  `json:"delivery_size_cords"`
	PickupQuantityCords float64  `json:"pickup_quantity_cords"`
	IsPickup            bool     `json:"is_pickup"`
	Directions          string   `json:"directions"`
	Notes               string   `json:"notes"`
	CreatedByUserID     string   `json:"created_by_user_id"`
}

func handleCreateOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		order, err := workorder.Create(db, workorder.CreateOpts{
			ClientID:            req.ClientID,
			ClientNumber:        req.ClientNumber,
			ClientName:          req.ClientName,
			DeliverySizeCords:   req.DeliverySizeCords,
			PickupQuantityCords: req.PickupQuantityCords,
			IsPickup:            req.IsPickup,
			Directions:          req.Directions,
			Notes:               req.Notes,
			CreatedByUserID:     req.CreatedByUserID,
		})
		if err != nil {
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func handleListOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := workorder.List(db, workorder.ListFilters{
			Status:     c.Query("status"),
			ClientID:   c.Query("client_id"),
			AssigneeID: c.Query("assignee_id"),
		})
		if err != nil {
			rejectErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func handleGetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := workorder.Get(db, c.Param("id"))
		if err != nil {
			rejectErr(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type transitionRequest struct {
	Status    string   `json:"status"`
	ActorID   string   `json:"actor_id"`
	ActorRole string   `json:"actor_role"`
	Mileage   *float64 `json:"mileage"`
	WorkHours *float64 `json:"work_hours"`
}

func handleTransition(coord *workorder.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := coord.Transition(c.Request.Context(), workorder.TransitionRequest{
			OrderID:   c.Param("id"),
			To:        workorder.Status(req.Status),
			Actor:     workorder.Actor{ID: req.ActorID, Role: workorder.Role(req.ActorRole)},
			Mileage:   req.Mileage,
			WorkHours: req.WorkHours,
		})
		if err != nil {
			rejectErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order":             res.Order,
			"from":              res.From,
			"to":                res.To,
			"inventory_applied": res.InventoryApplied,
			"warnings":          res.Warnings,
		})
	}
}

func handleHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 404 for unknown or deleted orders, not an empty history.
		if _, err := workorder.Get(db, c.Param("id")); err != nil {
			rejectErr(c, err)
			return
		}
		records, err := audit.History(db, c.Param("id"))
		if err != nil {
			rejectErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"history": records})
	}
}

type assignRequest struct {
	UserIDs []string `json:"user_ids"`
}

func handleAssign(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := workorder.Assign(db, c.Param("id"), req.UserIDs); err != nil {
			rejectErr(c, err)
			return
		}
		order, err := workorder.Get(db, c.Param("id"))
		if err != nil {
			rejectErr(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func handleInventory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := inventory.List(db)
		if err != nil {
			rejectErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func handleLowStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := inventory.LowStock(db)
		if err != nil {
			rejectErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func handleAudit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := audit.Recent(db, 0)
		if err != nil {
			rejectErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error_kind": "invalid_request",
		"message":    err.Error(),
	})
}

// rejectErr maps a typed rejection to an HTTP status. Storage failures
// surface as 503 so clients know to re-check state and retry.
func rejectErr(c *gin.Context, err error) {
	kind := workorder.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case workorder.KindNotFound, workorder.KindAlreadyDeleted:
		status = http.StatusNotFound
	case workorder.KindAlreadyTerminal, workorder.KindIllegalTransition:
		status = http.StatusConflict
	case workorder.KindInsufficientPermission:
		status = http.StatusForbidden
	case workorder.KindMissingRequiredField, workorder.KindNoAvailableDriver,
		workorder.KindInsufficientInventory:
		status = http.StatusUnprocessableEntity
	case workorder.KindStorageFailure:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"error_kind": string(kind),
		"message":    err.Error(),
	})
}
