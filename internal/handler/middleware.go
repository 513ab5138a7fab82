package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartsitter/core/internal/model"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"

	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

// Identity читает личность вызывающего из доверенных заголовков,
// проставленных шлюзом. Сервис сам токены не проверяет.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(headerUserID)
		if raw == "" {
			c.Next()
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + headerUserID})
			return
		}
		c.Set(ctxUserID, id)
		c.Set(ctxUserRole, model.UserRole(c.GetHeader(headerUserRole)))
		c.Next()
	}
}

// RequireUser пропускает только запросы с установленной личностью.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ctxUserID); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin пропускает только администраторов.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ctxUserRole)
		if !ok || role.(model.UserRole) != model.UserRoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) uuid.UUID {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(uuid.UUID)
	return id
}
