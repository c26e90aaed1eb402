package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/models"
)

const testSecret = "test-secret-0123456789"

type fakeStore map[uint]*models.AdminUser

func (s fakeStore) FindByID(_ context.Context, id uint) (*models.AdminUser, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, assert.AnError
}

func newGatedApp(store SessionStore, roles ...models.Role) (*fiber.App, *bool) {
	called := false
	app := fiber.New()
	app.Get("/guarded", SessionMiddleware(store, testSecret), RequireRoles(roles...), func(c *fiber.Ctx) error {
		called = true
		s, _ := CurrentSession(c)
		return c.SendString(string(s.Role))
	})
	return app, &called
}

func requestWithToken(t *testing.T, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	return req
}

func TestSession_MissingCookieIs401(t *testing.T) {
	app, called := newGatedApp(fakeStore{}, models.RoleAdmin)

	resp, err := app.Test(requestWithToken(t, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, *called)
}

func TestSession_TamperedTokenIs401(t *testing.T) {
	user := &models.AdminUser{ID: 1, Role: models.RoleAdmin}
	token, err := GenerateSessionToken(user, "another-secret-0123456789", time.Now())
	require.NoError(t, err)

	app, called := newGatedApp(fakeStore{1: user}, models.RoleAdmin)
	resp, err := app.Test(requestWithToken(t, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, *called)
}

func TestSession_ExpiredTokenIs401(t *testing.T) {
	user := &models.AdminUser{ID: 1, Role: models.RoleAdmin}
	token, err := GenerateSessionToken(user, testSecret, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	app, called := newGatedApp(fakeStore{1: user}, models.RoleAdmin)
	resp, err := app.Test(requestWithToken(t, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, *called)
}

func TestSession_DeletedUserIs401(t *testing.T) {
	user := &models.AdminUser{ID: 7, Role: models.RoleSuperAdmin}
	token, err := GenerateSessionToken(user, testSecret, time.Now())
	require.NoError(t, err)

	app, called := newGatedApp(fakeStore{}, models.RoleSuperAdmin)
	resp, err := app.Test(requestWithToken(t, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, *called)
}

func TestRequireRoles_InsufficientRoleIs403(t *testing.T) {
	user := &models.AdminUser{ID: 2, Role: models.RoleAdmin}
	token, err := GenerateSessionToken(user, testSecret, time.Now())
	require.NoError(t, err)

	app, called := newGatedApp(fakeStore{2: user}, UserManagers...)
	resp, err := app.Test(requestWithToken(t, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, *called)
}

func TestRequireRoles_StoredRoleWinsOverTokenClaim(t *testing.T) {
	// Token minted while the account was super_admin; it has since been demoted.
	minted := &models.AdminUser{ID: 3, Role: models.RoleSuperAdmin}
	token, err := GenerateSessionToken(minted, testSecret, time.Now())
	require.NoError(t, err)

	app, called := newGatedApp(fakeStore{3: {ID: 3, Role: models.RoleAdmin}}, UserManagers...)
	resp, err := app.Test(requestWithToken(t, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, *called)
}

func TestRequireRoles_AllowedRolePasses(t *testing.T) {
	user := &models.AdminUser{ID: 4, Role: models.RoleAdmin}
	token, err := GenerateSessionToken(user, testSecret, time.Now())
	require.NoError(t, err)

	app, called := newGatedApp(fakeStore{4: user}, ContentManagers...)
	resp, err := app.Test(requestWithToken(t, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, *called)
}

func TestRequireRoles_WithoutSessionIs401(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireRoles(models.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
