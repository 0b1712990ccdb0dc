package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usermodel "healthcare-org-admin/internal/user/model"
	"healthcare-org-admin/pkg/utils"
)

// RoleMiddleware authorizes callers holding at least one of the allowed
// roles. Users carry multiple roles so a single overlap is enough.
func RoleMiddleware(allowedRoles ...usermodel.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := GetUserRoles(c)
		if len(roles) == 0 {
			utils.ErrorResponse(c, http.StatusForbidden, "Roles not found in context")
			c.Abort()
			return
		}

		for _, held := range roles {
			for _, allowed := range allowedRoles {
				if held == string(allowed) {
					c.Next()
					return
				}
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func SystemAdminOnly() gin.HandlerFunc {
	return RoleMiddleware(usermodel.RoleSystemAdmin)
}

func HospitalAdminOnly() gin.HandlerFunc {
	return RoleMiddleware(usermodel.RoleHospitalAdmin)
}

func PharmaAdminOnly() gin.HandlerFunc {
	return RoleMiddleware(usermodel.RolePharmaAdmin)
}

func LabAdminOnly() gin.HandlerFunc {
	return RoleMiddleware(usermodel.RoleLabAdmin)
}
