package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"notekeeper/internal/auth"
)

const (
	sessionCookieName = "token"

	ctxKeyUserID = "userID"
	ctxKeyEmail  = "userEmail"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger tags every request with a uuid and logs method, path, status
// and latency once the handler chain finishes.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		})
		// present once requireSession has admitted the request
		if email, ok := c.Get(ctxKeyEmail); ok {
			entry = entry.WithField("user", email)
		}
		entry.Info("request")
	}
}

// requireSession verifies the session cookie and attaches the resolved
// identity to the request context. Page navigations are redirected to /login;
// API requests get a uniform 401.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil || token == "" {
			h.rejectUnauthenticated(c)
			return
		}

		claims, err := auth.VerifyToken(token, h.jwtSecret)
		if err != nil {
			h.rejectUnauthenticated(c)
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyEmail, claims.Email)
		c.Next()
	}
}

func (h *Handler) rejectUnauthenticated(c *gin.Context) {
	if prefersHTML(c) {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
}

// prefersHTML reports whether the request looks like a page navigation
// rather than an API call.
func prefersHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}

// sessionUserID returns the identity attached by requireSession.
func sessionUserID(c *gin.Context) int64 {
	id, _ := c.Get(ctxKeyUserID)
	userID, _ := id.(int64)
	return userID
}
