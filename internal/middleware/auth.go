package middleware

import (
	"net/http"
	"strings"

	"iyffa/internal/common"

	"github.com/gin-gonic/gin"
)

const (
	ctxMemberID   = "memberID"
	ctxMemberType = "memberType"
)

// TokenVerifier validates an access token and returns the member identity.
// Implemented by auth.TokenManager.
type TokenVerifier interface {
	VerifyAccess(token string) (memberID int64, memberType string, err error)
}

// Auth returns middleware that validates the Authorization bearer token
// and stores the member identity in the request context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			common.Error(c, http.StatusUnauthorized, "missing Authorization header")
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			common.Error(c, http.StatusUnauthorized, "Authorization header must be a bearer token")
			c.Abort()
			return
		}

		memberID, memberType, err := verifier.VerifyAccess(token)
		if err != nil {
			common.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxMemberID, memberID)
		c.Set(ctxMemberType, memberType)
		c.Next()
	}
}

// RequireAdmin returns middleware that rejects non-admin members.
// Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if MemberType(c) != "admin" {
			common.Error(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// MemberID returns the authenticated member's ID from the request context.
func MemberID(c *gin.Context) int64 {
	if v, ok := c.Get(ctxMemberID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// MemberType returns the authenticated member's type from the request context.
func MemberType(c *gin.Context) string {
	if v, ok := c.Get(ctxMemberType); ok {
		if t, ok := v.(string); ok {
			return t
		}
	}
	return ""
}
