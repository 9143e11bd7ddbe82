package middleware

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/mocktest-service/internal/config"
	"github.com/SAP-F-2025/mocktest-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// Context keys set for authenticated admin requests
const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
)

// TokenParser verifies a bearer token and returns its claims
type TokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// NewCasdoorParser builds a token parser from the Casdoor settings
func NewCasdoorParser(cfg config.CasdoorConfig) TokenParser {
	return casdoorsdk.NewClient(cfg.Endpoint, cfg.ClientID, cfg.ClientSecret, cfg.Certificate, cfg.Organization, cfg.Application)
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AdminAuth admits only requests carrying a valid token of a Casdoor administrator
func AdminAuth(parser TokenParser, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{
				Message: "Missing bearer token",
				Code:    "UNAUTHORIZED",
			})
			return
		}

		claims, err := parser.ParseJwtToken(token)
		if err != nil {
			logger.Warn("Rejected admin token", "error", err, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{
				Message: "Invalid token",
				Code:    "UNAUTHORIZED",
			})
			return
		}

		if !claims.User.IsAdmin {
			logger.Warn("Non-admin access attempt", "user", claims.User.Name, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody{
				Message: "Administrator access required",
				Code:    "FORBIDDEN",
			})
			return
		}

		c.Set(ContextUserID, claims.User.Id)
		c.Set(ContextUserName, claims.User.Name)
		c.Next()
	}
}

// OpenAccess lets every request through; used when no identity provider is configured
func OpenAccess(logger utils.Logger) gin.HandlerFunc {
	logger.Warn("Admin routes are not protected: Casdoor is not configured")
	return func(c *gin.Context) {
		c.Set(ContextUserName, "anonymous")
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
