package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Invincible1602/AyurYoga/internal/guard"
	"github.com/Invincible1602/AyurYoga/internal/session"
	"github.com/Invincible1602/AyurYoga/pkg/response"
	"github.com/Invincible1602/AyurYoga/pkg/telemetry"
)

// RequireAuth gates protected pages. An unauthenticated visitor is
// redirected to the login page and the attempted path is recorded so
// login can send them back. Denial is a normal outcome, not an error;
// every navigation is evaluated fresh.
func RequireAuth(g *guard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "middleware.require_auth")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		var identity *session.Claims
		if store := StoreFrom(c); store != nil {
			identity = store.CurrentIdentity()
		}

		decision := g.Evaluate(VisitID(c), c.Request.URL.Path, identity)
		span.SetAttributes(
			attribute.String("path", c.Request.URL.Path),
			attribute.Bool("allowed", decision.Allowed),
		)

		if !decision.Allowed {
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAuthAPI gates protected JSON endpoints. A denied request gets
// 401 rather than a redirect; the pending destination is not touched
// because an API call is not a navigation.
func RequireAuthAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "middleware.require_auth_api")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		store := StoreFrom(c)
		if store == nil || store.CurrentIdentity() == nil {
			span.SetAttributes(attribute.Bool("allowed", false))
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		span.SetAttributes(attribute.Bool("allowed", true))
		c.Next()
	}
}
