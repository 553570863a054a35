package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/auth"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

const (
	GinContextKeyOwnerID = "ownerID"
	GinContextKeyEmail   = "ownerEmail"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || token == authHeader {
		return "", false
	}
	return token, true
}

func AuthMiddleware(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyOwnerID, claims.OwnerID)
		c.Set(GinContextKeyEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the owner when a valid bearer token is present and
// lets the request through either way.
func OptionalAuthMiddleware(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := jwtSvc.ValidateToken(tokenString); err == nil {
				c.Set(GinContextKeyOwnerID, claims.OwnerID)
				c.Set(GinContextKeyEmail, claims.Email)
			}
		}
		c.Next()
	}
}

func GetOwnerIDFromGinContext(c *gin.Context) (string, bool) {
	ownerID := c.GetString(GinContextKeyOwnerID)
	return ownerID, ownerID != ""
}

// GetIdentityFromGinContext returns nil for anonymous requests.
func GetIdentityFromGinContext(c *gin.Context) *identity.Identity {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		return nil
	}
	return &identity.Identity{ID: ownerID, Email: c.GetString(GinContextKeyEmail)}
}

// ErrorMiddleware renders the last error recorded with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		if code := identity.CodeOf(err); code != "" {
			c.JSON(authStatus(code), gin.H{"error": string(code), "message": identity.Message(err)})
			return
		}

		status := apperror.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, zap.String("path", c.FullPath()), zap.String("method", c.Request.Method))
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(status, appErr.ToJSON())
			return
		}
		c.JSON(status, gin.H{"error": apperror.ErrInternal.Error(), "message": "An internal server error occurred"})
	}
}

func authStatus(code identity.Code) int {
	switch code {
	case identity.CodeEmailInUse:
		return http.StatusConflict
	case identity.CodeWeakPassword, identity.CodeInvalidEmail:
		return http.StatusBadRequest
	}
	return http.StatusUnauthorized
}

func MetricsMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// TracingMiddleware opens a server span per request and hands it to the use cases
// through the request context.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	tracer := otel.Tracer(serviceName)
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.Request.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.String("http.route", c.FullPath()),
			attribute.Int("http.status_code", status),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
