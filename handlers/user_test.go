package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahatak/middleware"
	"sahatak/models"
)

type fakeUserService struct {
	tokens map[string]string
	err    error
}

func (f *fakeUserService) Register(models.RegisterRequest) (*models.AuthResponse, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserService) Authenticate(models.LoginRequest) (*models.AuthResponse, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserService) GetByID(string) (*models.User, error) { return nil, nil }

func (f *fakeUserService) SetFCMToken(id, token string) error {
	if f.err != nil {
		return f.err
	}
	f.tokens[id] = token
	return nil
}

func newUserRouter(svc *fakeUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(svc)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "patient-1")
	})
	router.PUT("/api/users/fcm-token", h.UpdateFCMToken)
	return router
}

func TestUpdateFCMToken(t *testing.T) {
	svc := &fakeUserService{tokens: make(map[string]string)}
	fx := &handlerFixture{router: newUserRouter(svc)}

	rec := fx.do(t, http.MethodPut, "/api/users/fcm-token",
		models.FCMTokenRequest{FCMToken: "device-token-abc"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "device-token-abc", svc.tokens["patient-1"])
}

func TestUpdateFCMTokenRequiresToken(t *testing.T) {
	svc := &fakeUserService{tokens: make(map[string]string)}
	fx := &handlerFixture{router: newUserRouter(svc)}

	rec := fx.do(t, http.MethodPut, "/api/users/fcm-token", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.tokens)
}

func TestUpdateFCMTokenSurfacesStoreFailure(t *testing.T) {
	svc := &fakeUserService{tokens: make(map[string]string), err: errors.New("mongo down")}
	fx := &handlerFixture{router: newUserRouter(svc)}

	rec := fx.do(t, http.MethodPut, "/api/users/fcm-token",
		models.FCMTokenRequest{FCMToken: "device-token-abc"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
