// payment-reminder/internal/handlers/dashboard_handler.go

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hehemohit/payment-reminder/models"
)

// DashboardHandler serves the aggregate numbers shown on the dashboard.
type DashboardHandler struct {
	DB  *gorm.DB
	RDB *redis.Client
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(db *gorm.DB, rdb *redis.Client) *DashboardHandler {
	return &DashboardHandler{DB: db, RDB: rdb}
}

type StatusBreakdown struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type DashboardSummary struct {
	Clients          int64           `json:"clients"`
	TotalFinalAmount decimal.Decimal `json:"total_final_amount"`
	Pending          StatusBreakdown `json:"pending"`
	Paid             StatusBreakdown `json:"paid"`
	Overdue          StatusBreakdown `json:"overdue"`
}

// SummaryHandler returns client and payment totals per status. The result is
// cached in Redis and invalidated by every mutating handler; without Redis it
// is computed on every request.
func (h *DashboardHandler) SummaryHandler(c *gin.Context) {
	ctx := c.Request.Context()

	if h.RDB != nil {
		if cached, err := h.RDB.Get(ctx, summaryCacheKey).Result(); err == nil {
			var summary DashboardSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				c.Header("X-Cache", "hit")
				c.JSON(http.StatusOK, summary)
				return
			}
		}
	}

	summary, err := h.buildSummary()
	if err != nil {
		slog.Error("failed to build dashboard summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}

	if h.RDB != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := h.RDB.Set(ctx, summaryCacheKey, data, summaryCacheTTL).Err(); err != nil {
				slog.Error("failed to cache dashboard summary", "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) buildSummary() (DashboardSummary, error) {
	summary := DashboardSummary{
		TotalFinalAmount: decimal.Zero,
		Pending:          StatusBreakdown{Total: decimal.Zero},
		Paid:             StatusBreakdown{Total: decimal.Zero},
		Overdue:          StatusBreakdown{Total: decimal.Zero},
	}

	if err := h.DB.Model(&models.Client{}).Count(&summary.Clients).Error; err != nil {
		return summary, err
	}

	var totals struct {
		Total decimal.Decimal
	}
	err := h.DB.Model(&models.Client{}).
		Select("COALESCE(SUM(final_amount), 0) AS total").
		Scan(&totals).Error
	if err != nil {
		return summary, err
	}
	summary.TotalFinalAmount = totals.Total

	var rows []struct {
		Status models.PaymentStatus
		Count  int64
		Total  decimal.Decimal
	}
	err = h.DB.Model(&models.Payment{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return summary, err
	}

	for _, row := range rows {
		breakdown := StatusBreakdown{Count: row.Count, Total: row.Total}
		switch row.Status {
		case models.StatusPending:
			summary.Pending = breakdown
		case models.StatusPaid:
			summary.Paid = breakdown
		case models.StatusOverdue:
			summary.Overdue = breakdown
		default:
			slog.Warn("payment with unknown status in summary", "status", row.Status, "count", row.Count)
		}
	}

	return summary, nil
}
