package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/medigrid/ambudispatch/internal/auth"
	"github.com/medigrid/ambudispatch/internal/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newRoleRouter(jwt *iauth.JWTService, allowed ...models.Role) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", Auth(jwt), RequireRole(allowed...), func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"uid": actor.UserID, "role": actor.Role.String()})
	})
	return r
}

func issueToken(t *testing.T, jwt *iauth.JWTService, userID string, role models.Role) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: userID, Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthRejectsMissingBearer(t *testing.T) {
	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	r := newRoleRouter(jwt, models.RoleAdmin)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	r := newRoleRouter(jwt, models.RoleStaff, models.RoleAdmin)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwt, "staff-1", models.RoleStaff))
	r.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "staff-1")
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	r := newRoleRouter(jwt, models.RoleAdmin)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwt, "cust-1", models.RoleCustomer))
	r.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusForbidden, recorder.Code)
}
