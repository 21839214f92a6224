package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"cafehere/apperr"
	"cafehere/dto"
	"cafehere/model"
	"cafehere/permission"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func perform(t *testing.T, r http.Handler, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env Envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestEnvelope(t *testing.T) {
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { OK(c, gin.H{"a": 1}) })
	r.POST("/created", func(c *gin.Context) { Created(c, []int{}) })
	r.DELETE("/gone", func(c *gin.Context) { NoContent(c) })
	r.GET("/boom", func(c *gin.Context) { Error(c, errors.New("pq: connection refused")) })
	r.GET("/field", func(c *gin.Context) { Error(c, apperr.Field("name", "taken")) })

	w, env := perform(t, r, http.MethodGet, "/ok", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Meta{Code: 200, Message: "ok"}, env.Meta)
	assert.Equal(t, map[string]any{"a": float64(1)}, env.Data)

	w, env = perform(t, r, http.MethodPost, "/created", "", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []any{}, env.Data)

	w, _ = perform(t, r, http.MethodDelete, "/gone", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, env = perform(t, r, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error (500)", env.Meta.Message)
	assert.Nil(t, env.Data)
	assert.NotContains(t, w.Body.String(), "connection refused")

	w, env = perform(t, r, http.MethodGet, "/field", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string][]string{"name": {"taken"}}, env.Meta.Errors)
	assert.Contains(t, w.Body.String(), `"data":null`)
}

func TestRecoveryAndRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("secret state") })

	w, env := perform(t, r, http.MethodGet, "/panic", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, Meta{Code: 500, Message: "Server Error (500)"}, env.Meta)
	assert.NotContains(t, w.Body.String(), "secret state")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, _ = perform(t, r, http.MethodGet, "/panic", "", map[string]string{"X-Request-ID": "abc"})
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestBindReportsFieldErrors(t *testing.T) {
	r := gin.New()
	r.POST("/register", func(c *gin.Context) {
		var req dto.RegisterRequest
		if err := Bind(c, &req); err != nil {
			Error(c, err)
			return
		}
		OK(c, req.Mobile)
	})
	r.POST("/groups", func(c *gin.Context) {
		var req dto.OptionGroupRequest
		if err := Bind(c, &req); err != nil {
			Error(c, err)
			return
		}
		OK(c, nil)
	})
	r.POST("/products", func(c *gin.Context) {
		var req dto.CreateProductRequest
		if err := Bind(c, &req); err != nil {
			Error(c, err)
			return
		}
		OK(c, nil)
	})

	_, env := perform(t, r, http.MethodPost, "/register", `{"mobile":"010-1234","password":"pw"}`, nil)
	assert.Equal(t, []string{"Enter a valid mobile number."}, env.Meta.Errors["mobile"])

	_, env = perform(t, r, http.MethodPost, "/register", `{"mobile":"+82-1012345678","password":"pw"}`, nil)
	assert.Equal(t, 200, env.Meta.Code)

	w, env := perform(t, r, http.MethodPost, "/register", "", map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Meta.Errors, "mobile")
	assert.Contains(t, env.Meta.Errors, "password")

	_, env = perform(t, r, http.MethodPost, "/register", `{"mobile":`, nil)
	assert.Equal(t, "Malformed request body.", env.Meta.Message)

	_, env = perform(t, r, http.MethodPost, "/groups", `{"name":"size","options":[{"name":"large","add_price":-1}]}`, nil)
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 0."}, env.Meta.Errors["options[0].add_price"])

	_, env = perform(t, r, http.MethodPost, "/products", `{"name":"this product name is way too long to fit"}`, nil)
	assert.Equal(t, []string{"Ensure this field has no more than 30 characters."}, env.Meta.Errors["name"])
	assert.Equal(t, []string{"This field is required."}, env.Meta.Errors["category"])
	assert.Contains(t, env.Meta.Errors, "price")
}

type stubTokens struct{ user *model.User }

func (s stubTokens) Authenticate(_ context.Context, raw string) (*model.User, error) {
	if raw != "good" {
		return nil, apperr.Unauthorized("Token is invalid or expired")
	}
	return s.user, nil
}

type stubAuthorizer struct {
	got    permission.Request
	result permission.Result
}

func (s *stubAuthorizer) Authorize(_ context.Context, caller *model.User, req permission.Request) (permission.Result, error) {
	if caller == nil {
		return permission.Result{}, apperr.Unauthorized(msgNoCredentials)
	}
	s.got = req
	return s.result, nil
}

func TestAuthAndCafeMiddleware(t *testing.T) {
	user := &model.User{ID: 1}
	cafe := &model.Cafe{ID: 7, Name: "blue", OwnerID: 1}
	authz := &stubAuthorizer{result: permission.Result{Decision: permission.Allowed, Cafe: cafe}}

	r := gin.New()
	r.GET("/cafes/:cafe_uuid/categories/:category_id/",
		AuthRequired(stubTokens{user: user}),
		CafeOwnerRequired(authz, permission.ScopeItem),
		func(c *gin.Context) {
			assert.Same(t, user, CurrentUser(c))
			OK(c, CurrentCafe(c).Name)
		})

	path := "/cafes/8a1f3b2e-5c53-4a43-9b1c-8c1c2d9a6f01/categories/12/"
	w, env := perform(t, r, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgNoCredentials, env.Meta.Message)

	w, _ = perform(t, r, http.MethodGet, path, "", map[string]string{"Authorization": "Token good"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = perform(t, r, http.MethodGet, path, "", map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = perform(t, r, http.MethodGet, path, "", map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "blue", env.Data)
	require.NotNil(t, authz.got.CategoryID)
	assert.Equal(t, uint(12), *authz.got.CategoryID)
	assert.Equal(t, permission.ScopeItem, authz.got.Scope)

	authz.result = permission.Result{Decision: permission.Forbidden, Reason: "nope"}
	w, env = perform(t, r, http.MethodGet, "/cafes/not-a-uuid/categories/x/", "", map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "nope", env.Meta.Message)
	assert.Equal(t, uint(0), *authz.got.CategoryID)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	for _, v := range []string{"0", "-1", "abc", ""} {
		_, ok := ParseID(v)
		assert.False(t, ok, v)
	}
}
