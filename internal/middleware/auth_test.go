package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier accepts a single canned token.
type fakeVerifier struct {
	token      string
	memberID   int64
	memberType string
}

func (f *fakeVerifier) VerifyAccess(token string) (int64, string, error) {
	if token == f.token {
		return f.memberID, f.memberType, nil
	}
	return 0, "", errors.New("invalid token")
}

func newAuthRouter(verifier TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(verifier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"member_id":   MemberID(c),
			"member_type": MemberType(c),
		})
	})
	r.GET("/admin", Auth(verifier), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMissingHeader(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{token: "good"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthNonBearerHeader(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{token: "good"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{token: "good"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthValidTokenSetsIdentity(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{token: "good", memberID: 42, memberType: "user"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"member_id": 42, "member_type": "user"}`, w.Body.String())
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{token: "good", memberID: 42, memberType: "user"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{token: "good", memberID: 1, memberType: "admin"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
