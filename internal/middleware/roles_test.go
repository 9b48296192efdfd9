package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

func performWithRole(minRole, actorRole string) int {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected",
		func(c *gin.Context) {
			if actorRole != "" {
				c.Set(ContextUserRole, actorRole)
			}
			c.Next()
		},
		RequireRole(minRole),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequireRole_HierarchyIsCumulative(t *testing.T) {
	// qualquer papel acima do mínimo passa
	assert.Equal(t, http.StatusOK, performWithRole(models.RoleProfessional, models.RoleProfessional))
	assert.Equal(t, http.StatusOK, performWithRole(models.RoleProfessional, models.RoleSpaceAdmin))
	assert.Equal(t, http.StatusOK, performWithRole(models.RoleProfessional, models.RoleMasterAdmin))
	assert.Equal(t, http.StatusOK, performWithRole(models.RoleClient, models.RoleClient))
}

func TestRequireRole_BelowMinimumIsForbidden(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, performWithRole(models.RoleProfessional, models.RoleClient))
	assert.Equal(t, http.StatusForbidden, performWithRole(models.RoleMasterAdmin, models.RoleSpaceAdmin))
}

func TestRequireRole_UnknownRoleIsForbidden(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, performWithRole(models.RoleClient, "intruso"))
}

func TestRequireRole_MissingRoleIsUnauthorized(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, performWithRole(models.RoleClient, ""))
}
