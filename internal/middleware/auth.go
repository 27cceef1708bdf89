package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/service-scheduler/internal/config"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

const (
	ContextUserID         = "userID"
	ContextOrganizationID = "organizationID"
	ContextUserRole       = "userRole"
	ContextActor          = "actor"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok1 := claims["sub"].(float64)
		organizationID, ok2 := claims["organizationId"].(float64)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 || organizationID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		actor := domain.Actor{
			UserID:         uint(userID),
			Role:           role,
			ProfessionalID: optionalID(claims, "professionalId"),
			ClientID:       optionalID(claims, "clientId"),
			IP:             c.ClientIP(),
			Channel:        booking.ChannelStandard,
		}
		if role == models.RoleAutomation {
			actor.Channel = booking.ChannelAutomation
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextOrganizationID, uint(organizationID))
		c.Set(ContextUserRole, role)
		c.Set(ContextActor, actor)

		c.Next()
	}
}

func optionalID(claims jwt.MapClaims, key string) *uint {
	v, ok := claims[key].(float64)
	if !ok || v <= 0 {
		return nil
	}
	id := uint(v)
	return &id
}

// RequireRoles rejects callers whose role is not listed.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[c.GetString(ContextUserRole)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden_role"})
			return
		}
		c.Next()
	}
}

func OrganizationID(c *gin.Context) uint {
	return c.MustGet(ContextOrganizationID).(uint)
}

func ActorFrom(c *gin.Context) domain.Actor {
	return c.MustGet(ContextActor).(domain.Actor)
}
