package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/invoicer/internal/config"
	"github.com/example/invoicer/internal/database"
	"github.com/example/invoicer/internal/routes"
)

const testSecret = "test-secret"

type fakeSMS struct {
	lastTo   string
	lastBody string
	err      error
}

func (f *fakeSMS) SendSMS(to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.lastTo = to
	f.lastBody = body
	return nil
}

func newTestApp(t *testing.T, enable2FA bool, sms *fakeSMS) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:    testSecret,
		TokenExpires: time.Hour,
		Enable2FA:    enable2FA,
	}

	app := fiber.New()
	routes.Register(app, db, cfg, sms)

	return app, db, cfg
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeList(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()

	defer resp.Body.Close()
	var out []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// signupAndLogin registers a user and returns a session token. Only
// valid on apps with 2FA disabled.
func signupAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/signup", "", map[string]interface{}{
		"email":       email,
		"password":    "s3cret",
		"phoneNumber": "+15550001111",
		"name":        "Test User",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/api/login", "", map[string]interface{}{
		"email":    email,
		"password": "s3cret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createCustomer(t *testing.T, app *fiber.App, token, name string) string {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/customers", token, map[string]interface{}{
		"name":        name,
		"companyName": name + " LLC",
		"phoneNumber": "+15550002222",
		"email":       "billing@example.com",
		"address":     "1 Main St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}
