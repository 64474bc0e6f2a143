// payment-reminder/internal/routes/api_routes.go

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hehemohit/payment-reminder/internal/handlers"
)

// Handlers groups the handler instances the router wires up.
type Handlers struct {
	Clients   *handlers.ClientHandler
	Payments  *handlers.PaymentHandler
	Email     *handlers.EmailHandler
	Dashboard *handlers.DashboardHandler
}

// SetupRoutes registers every route of the application.
func SetupRoutes(r *gin.Engine, h Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// --- CLIENTS ---
		clients := api.Group("/clients")
		{
			clients.GET("", h.Clients.ListClientsHandler)
			clients.POST("", h.Clients.CreateClientHandler)
			clients.GET("/:id", h.Clients.GetClientHandler)
			clients.PUT("/:id", h.Clients.UpdateClientHandler)
			clients.DELETE("/:id", h.Clients.DeleteClientHandler)
			clients.GET("/:id/payments", h.Clients.GetClientPaymentsHandler)
			clients.PUT("/:id/final-amount", h.Clients.OverrideFinalAmountHandler)
		}

		// --- PAYMENTS ---
		payments := api.Group("/payments")
		{
			payments.GET("", h.Payments.ListPaymentsHandler)
			payments.POST("", h.Payments.CreatePaymentHandler)
			payments.GET("/export", h.Payments.ExportPaymentsHandler)
			payments.GET("/overdue/list", h.Payments.ListOverduePaymentsHandler)
			payments.POST("/update-overdue", h.Payments.UpdateOverdueHandler)
			payments.POST("/sync-final-amounts", h.Payments.SyncFinalAmountsHandler)
			payments.GET("/:id", h.Payments.GetPaymentHandler)
			payments.PUT("/:id", h.Payments.UpdatePaymentHandler)
			payments.DELETE("/:id", h.Payments.DeletePaymentHandler)
		}

		// --- EMAIL REMINDERS ---
		email := api.Group("/email")
		{
			email.POST("/send-reminder/client/:clientId", h.Email.SendClientReminderHandler)
			email.POST("/send-reminder/:paymentId", h.Email.SendReminderHandler)
			email.POST("/send-bulk-reminders", h.Email.SendBulkRemindersHandler)
			email.GET("/logs/:clientId", h.Email.GetEmailLogsHandler)
		}

		// --- DASHBOARD ---
		api.GET("/dashboard/summary", h.Dashboard.SummaryHandler)
	}
}
