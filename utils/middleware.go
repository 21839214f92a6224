package utils

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cafehere/apperr"
	"cafehere/model"
	"cafehere/permission"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	RequestIDKey = "request_id"
	userKey      = "user"
	cafeKey      = "cafe"
)

const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgBadHeader     = "Authorization header must contain two space-delimited values"
	msgServerError   = "Server Error (500)"
)

// Authenticator resolves a raw access token to its active user.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.User, error)
}

// RequestID reuses an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(RequestIDKey, rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

// RequestLogger logs each request with method, path, status, latency and request_id.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// Recovery turns a panic into the 500 envelope. The panic value is logged only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Msg("panic recovered")
				Fail(c, http.StatusInternalServerError, msgServerError, nil)
			}
		}()
		c.Next()
	}
}

// AuthRequired validates the Bearer access token and stores the user in the context.
func AuthRequired(tokens Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			Error(c, apperr.Unauthorized(msgNoCredentials))
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			Error(c, apperr.Unauthorized(msgBadHeader))
			return
		}

		user, err := tokens.Authenticate(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			Error(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// CafeOwnerRequired authorizes the caller on :cafe_uuid and, when present in the
// route, on :category_id and :option_group_id. The cafe is stored for handlers.
func CafeOwnerRequired(authz permission.Authorizer, scope permission.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		// an unparsable uuid cannot match a cafe; the authorizer reports it as missing
		cafeUUID, err := uuid.Parse(c.Param("cafe_uuid"))
		if err != nil {
			cafeUUID = uuid.Nil
		}
		req := permission.Request{CafeUUID: cafeUUID, Scope: scope}
		if v := c.Param("category_id"); v != "" {
			id, _ := ParseID(v)
			req.CategoryID = &id
		}
		if v := c.Param("option_group_id"); v != "" {
			id, _ := ParseID(v)
			req.OptionGroupID = &id
		}

		res, err := authz.Authorize(c.Request.Context(), CurrentUser(c), req)
		if err != nil {
			Error(c, err)
			return
		}
		if err := res.Err(); err != nil {
			log.Debug().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("cafe", cafeUUID.String()).
				Str("decision", res.Decision.String()).
				Msg("cafe access denied")
			Error(c, err)
			return
		}
		c.Set(cafeKey, res.Cafe)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside AuthRequired.
func CurrentUser(c *gin.Context) *model.User {
	user, _ := c.Get(userKey)
	u, _ := user.(*model.User)
	return u
}

// CurrentCafe returns the cafe authorized by CafeOwnerRequired.
func CurrentCafe(c *gin.Context) *model.Cafe {
	cafe, _ := c.Get(cafeKey)
	cf, _ := cafe.(*model.Cafe)
	return cf
}

// ParseID parses a positive numeric path id; 0 and false when it is not one.
func ParseID(v string) (uint, bool) {
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
