package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganindu/arana-care-api/models"
	"github.com/ganindu/arana-care-api/token"
)

const testSecret = "gate-test-secret"

// The user gate never touches the database, so a nil client is fine here.
func newUserGateApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", RequireRole(nil, "testdb", testSecret, models.RoleUser), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"principalId": c.Locals(LocalsPrincipalID),
			"role":        c.Locals(LocalsRole),
		})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGateRejectsMissingToken(t *testing.T) {
	resp := doRequest(t, newUserGateApp(), "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateRejectsNonBearerHeader(t *testing.T) {
	resp := doRequest(t, newUserGateApp(), "Basic abc123")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateRejectsMalformedToken(t *testing.T) {
	resp := doRequest(t, newUserGateApp(), "Bearer not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateRejectsExpiredToken(t *testing.T) {
	signed, err := token.Issue(testSecret, "64f000000000000000000001", models.RoleUser, -time.Minute)
	require.NoError(t, err)

	resp := doRequest(t, newUserGateApp(), "Bearer "+signed)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateRejectsWrongRole(t *testing.T) {
	// An admin token must not open a user-gated route.
	signed, err := token.Issue(testSecret, "64f000000000000000000001", models.RoleAdmin, token.AdminTTL)
	require.NoError(t, err)

	resp := doRequest(t, newUserGateApp(), "Bearer "+signed)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateRejectsWrongSignature(t *testing.T) {
	signed, err := token.Issue("some-other-secret", "64f000000000000000000001", models.RoleUser, token.UserLoginTTL)
	require.NoError(t, err)

	resp := doRequest(t, newUserGateApp(), "Bearer "+signed)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateAcceptsValidUserToken(t *testing.T) {
	signed, err := token.Issue(testSecret, "64f000000000000000000001", models.RoleUser, token.UserLoginTTL)
	require.NoError(t, err)

	resp := doRequest(t, newUserGateApp(), "Bearer "+signed)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
