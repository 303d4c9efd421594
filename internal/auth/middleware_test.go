package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingResponseHandler captures the reason code passed to the
// middleware's rejection paths.
type recordingResponseHandler struct {
	code string
}

func (r *recordingResponseHandler) SuccessResponse(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (r *recordingResponseHandler) CreatedResponse(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, gin.H{"message": message})
}

func (r *recordingResponseHandler) ErrorResponse(c *gin.Context, status int, code, message string, err error) {
	r.code = code
	c.JSON(status, gin.H{"code": code})
}

func (r *recordingResponseHandler) ValidationErrorResponse(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"field": field})
}

func (r *recordingResponseHandler) NotFoundResponse(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"message": message})
}

func (r *recordingResponseHandler) ConflictResponse(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, gin.H{"message": message})
}

func (r *recordingResponseHandler) UnauthorizedResponse(c *gin.Context, code, message string) {
	r.code = code
	c.JSON(http.StatusUnauthorized, gin.H{"code": code})
}

func (r *recordingResponseHandler) ForbiddenResponse(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{"message": message})
}

func (r *recordingResponseHandler) InternalErrorResponse(c *gin.Context, message string, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": message})
}

// fakeUserStore serves users by id for the admin lookup
type fakeUserStore struct {
	users map[uuid.UUID]*User
}

func (s *fakeUserStore) Create(ctx context.Context, user *User) error { return nil }
func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return nil, nil
}
func (s *fakeUserStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users[id], nil
}
func (s *fakeUserStore) List(ctx context.Context) ([]User, error)    { return nil, nil }
func (s *fakeUserStore) Save(ctx context.Context, user *User) error  { return nil }

func newAuthRouter(token TokenService, rh ResponseHandler, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(token, rh, roles...), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": id.String()})
	})
	return router
}

func doRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	rh := &recordingResponseHandler{}
	router := newAuthRouter(NewJWTService(testJWTConfig(time.Hour)), rh)

	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_MISSING", rh.code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	rh := &recordingResponseHandler{}
	router := newAuthRouter(NewJWTService(testJWTConfig(time.Hour)), rh)

	w := doRequest(router, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALID", rh.code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	rh := &recordingResponseHandler{}
	svc := NewJWTService(testJWTConfig(-time.Minute))
	router := newAuthRouter(svc, rh)

	token, err := svc.GenerateAccessToken(testUser(false))
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_EXPIRED", rh.code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	rh := &recordingResponseHandler{}
	svc := NewJWTService(testJWTConfig(time.Hour))
	router := newAuthRouter(svc, rh)

	user := testUser(false)
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
}

func TestAuthMiddlewareRoleRestriction(t *testing.T) {
	rh := &recordingResponseHandler{}
	svc := NewJWTService(testJWTConfig(time.Hour))
	router := newAuthRouter(svc, rh, RoleAdmin)

	token, err := svc.GenerateAccessToken(testUser(false))
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := svc.GenerateAccessToken(testUser(true))
	require.NoError(t, err)

	w = doRequest(router, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminLookupConsultsStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rh := &recordingResponseHandler{}
	svc := NewJWTService(testJWTConfig(time.Hour))

	// the token still claims admin, but the store has since demoted the
	// user; the fresh read wins
	demoted := testUser(true)
	store := &fakeUserStore{users: map[uuid.UUID]*User{
		demoted.ID: {ID: demoted.ID, Name: demoted.Name, Email: demoted.Email, IsAdmin: false},
	}}

	router := gin.New()
	router.PATCH("/admin", RequireAdminLookup(svc, store, rh), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	token, err := svc.GenerateAccessToken(demoted)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// promote in the store and retry
	store.users[demoted.ID].IsAdmin = true
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewJWTService(testJWTConfig(time.Hour))

	router := gin.New()
	router.GET("/open", OptionalAuthMiddleware(svc), func(c *gin.Context) {
		if id, ok := CurrentUserID(c); ok {
			c.JSON(http.StatusOK, gin.H{"userId": id.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": nil})
	})

	// anonymous requests pass through
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// identified requests carry the user id
	user := testUser(false)
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), user.ID.String())
}
