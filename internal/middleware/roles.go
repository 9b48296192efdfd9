package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andersonraduan/reserva-rapida-pt/internal/models"
)

// Hierarquia de papeis: quem esta acima herda as permissoes de quem esta abaixo.
var roleRank = map[string]int{
	models.RoleClient:       1,
	models.RoleProfessional: 2,
	models.RoleSpaceAdmin:   3,
	models.RoleMasterAdmin:  4,
}

func RequireRole(minRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(ContextUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_role"})
			return
		}

		role, ok := roleValue.(string)
		if !ok || roleRank[role] == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		if roleRank[role] < roleRank[minRole] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
