package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/models"
	"bookwise/api/internal/security"
)

type fakeAuthorizer struct {
	claims *security.AccessClaims
	err    error
}

func (f fakeAuthorizer) Authorize(_ context.Context, _ string) (*security.AccessClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func newTestRouter(authorizer Authorizer, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/protected")
	group.Use(Auth(authorizer))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("", func(c *gin.Context) {
		claims, _ := CurrentClaims(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMissingHeader(t *testing.T) {
	router := newTestRouter(fakeAuthorizer{claims: &security.AccessClaims{}})

	if rec := doRequest(router, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if rec := doRequest(router, "Basic dXNlcjpwYXNz"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for non-bearer scheme", rec.Code)
	}
}

func TestAuthRejectedToken(t *testing.T) {
	router := newTestRouter(fakeAuthorizer{err: errors.New("revoked")})

	if rec := doRequest(router, "Bearer some-token"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthPassesClaimsThrough(t *testing.T) {
	router := newTestRouter(fakeAuthorizer{claims: &security.AccessClaims{
		UserID:    "user-1",
		SessionID: "session-1",
		Role:      string(models.UserRoleMember),
	}})

	rec := doRequest(router, "Bearer some-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != `{"userId":"user-1"}` {
		t.Fatalf("body = %s", body)
	}
}

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		name    string
		role    models.UserRole
		allowed []models.UserRole
		want    int
	}{
		{"member blocked from staff route", models.UserRoleMember, []models.UserRole{models.UserRoleAdmin, models.UserRoleLibrarian}, http.StatusForbidden},
		{"librarian allowed on staff route", models.UserRoleLibrarian, []models.UserRole{models.UserRoleAdmin, models.UserRoleLibrarian}, http.StatusOK},
		{"librarian blocked from admin route", models.UserRoleLibrarian, []models.UserRole{models.UserRoleAdmin}, http.StatusForbidden},
		{"admin allowed on admin route", models.UserRoleAdmin, []models.UserRole{models.UserRoleAdmin}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(fakeAuthorizer{claims: &security.AccessClaims{
				UserID: "user-1",
				Role:   string(tc.role),
			}}, tc.allowed...)

			if rec := doRequest(router, "Bearer some-token"); rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
