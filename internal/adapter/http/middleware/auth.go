package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subash43e/taskapp/internal/core/domain"
	"github.com/subash43e/taskapp/pkg/apierrors"
)

const userContextKey = "user"

// AuthMiddleware resolves the current user from the identity collaborator's
// headers. Verification of the identity itself happens upstream; requests
// without a user id are rejected before reaching any handler.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetHeader("X-User-ID")
		if uid == "" {
			lang := GetLang(c)
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgAuthRequired, lang),
			)
			return
		}

		c.Set(userContextKey, domain.User{
			UID:         uid,
			Email:       c.GetHeader("X-User-Email"),
			DisplayName: c.GetHeader("X-User-Name"),
		})
		c.Next()
	}
}

func GetUser(c *gin.Context) domain.User {
	if value, exists := c.Get(userContextKey); exists {
		if user, ok := value.(domain.User); ok {
			return user
		}
	}
	return domain.User{}
}
