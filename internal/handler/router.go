package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter собирает маршруты сервиса. Публичный поиск не требует
// личности; всё остальное — за Identity/RequireUser, админские
// операции — ещё и за RequireAdmin.
func NewRouter(
	bookings *BookingHandler,
	sitters *SitterHandler,
	availabilities *AvailabilityHandler,
	reviews *ReviewHandler,
	notifications *NotificationHandler,
	production bool,
) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Identity())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// Публичная витрина.
	api.GET("/sitters", sitters.Search)
	api.GET("/sitters/:id", sitters.Get)
	api.GET("/sitters/:id/availability", availabilities.Check)

	auth := api.Group("")
	auth.Use(RequireUser())
	{
		auth.POST("/bookings", bookings.Create)
		auth.GET("/bookings/:id", bookings.Get)
		auth.GET("/bookings/:id/history", bookings.History)
		auth.POST("/bookings/:id/accept", bookings.Accept)
		auth.POST("/bookings/:id/reject", bookings.Reject)
		auth.POST("/bookings/:id/confirm", bookings.Confirm)
		auth.POST("/bookings/:id/complete", bookings.Complete)
		auth.POST("/bookings/:id/cancel", bookings.Cancel)
		auth.POST("/bookings/:id/reschedule", bookings.Reschedule)
		auth.POST("/bookings/:id/pay", bookings.MarkPaid)
		auth.GET("/bookings/:id/can-review", reviews.CanReview)

		auth.GET("/my-bookings/parent", bookings.ListMineAsParent)
		auth.GET("/my-bookings/sitter", bookings.ListMineAsSitter)

		auth.POST("/availabilities", availabilities.Add)
		auth.GET("/availabilities", availabilities.List)
		auth.DELETE("/availabilities/:id", availabilities.Remove)

		auth.POST("/reviews", reviews.Create)
		auth.GET("/reviews/mine", reviews.ListMine)

		auth.GET("/notifications", notifications.ListMine)
	}

	admin := api.Group("/admin")
	admin.Use(RequireUser(), RequireAdmin())
	{
		admin.POST("/bookings/:id/status", bookings.AdminSetStatus)
		admin.POST("/bookings/:id/check-in", bookings.CheckIn)
		admin.POST("/bookings/:id/check-out", bookings.CheckOut)
		admin.POST("/sitters/:id/approve", sitters.AdminApprove)
		admin.PUT("/sitters/:id/skills", sitters.ReplaceSkills)
		admin.POST("/reviews/:id/moderate", reviews.AdminDecision)
	}

	return r
}
