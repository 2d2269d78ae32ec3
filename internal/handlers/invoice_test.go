package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/invoicer/internal/models"
	"github.com/example/invoicer/internal/utils"
)

func invoicePayload(customerID string) map[string]interface{} {
	return map[string]interface{}{
		"customerId":    customerID,
		"date":          "2026-01-15",
		"dueDate":       "2026-02-15",
		"taxPercentage": 10,
		"status":        "unpaid",
		"items": []map[string]interface{}{
			{"description": "Design work", "quantity": 2, "price": 10.00},
			{"description": "Hosting", "quantity": 1, "price": 5.00},
		},
	}
}

func TestCreateInvoiceComputesTotal(t *testing.T) {
	app, _, _ := newTestApp(t, false, &fakeSMS{})
	token := signupAndLogin(t, app, "alice@example.com")
	customerID := createCustomer(t, app, token, "Acme")

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", token, invoicePayload(customerID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)

	// (2*10.00 + 1*5.00) * 1.10 = 27.50
	assert.Equal(t, 27.50, body["total"])
	assert.Equal(t, "unpaid", body["status"])
	assert.Len(t, body["items"], 2)
	require.NotNil(t, body["customer"])
}

func TestCreateInvoiceIgnoresClientTotal(t *testing.T) {
	app, _, _ := newTestApp(t, false, &fakeSMS{})
	token := signupAndLogin(t, app, "alice@example.com")
	customerID := createCustomer(t, app, token, "Acme")

	payload := invoicePayload(customerID)
	payload["total"] = 1.00

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", token, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, 27.50, body["total"])
}

func TestCreateInvoiceRejectsForeignCustomer(t *testing.T) {
	app, db, _ := newTestApp(t, false, &fakeSMS{})
	aliceToken := signupAndLogin(t, app, "alice@example.com")
	bobToken := signupAndLogin(t, app, "bob@example.com")
	bobCustomer := createCustomer(t, app, bobToken, "Bobs Shop")

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", aliceToken, invoicePayload(bobCustomer))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Nothing may be persisted for a rejected cross-tenant reference.
	var invoices, items int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&invoices).Error)
	require.NoError(t, db.Model(&models.InvoiceItem{}).Count(&items).Error)
	assert.EqualValues(t, 0, invoices)
	assert.EqualValues(t, 0, items)
}

func TestCreateInvoiceValidation(t *testing.T) {
	app, db, _ := newTestApp(t, false, &fakeSMS{})
	token := signupAndLogin(t, app, "alice@example.com")
	customerID := createCustomer(t, app, token, "Acme")

	cases := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"no items", func(p map[string]interface{}) {
			p["items"] = []map[string]interface{}{}
		}},
		{"zero quantity", func(p map[string]interface{}) {
			p["items"] = []map[string]interface{}{{"description": "x", "quantity": 0, "price": 1.00}}
		}},
		{"negative price", func(p map[string]interface{}) {
			p["items"] = []map[string]interface{}{{"description": "x", "quantity": 1, "price": -1.00}}
		}},
		{"bad status", func(p map[string]interface{}) {
			p["status"] = "overdue"
		}},
		{"negative tax", func(p map[string]interface{}) {
			p["taxPercentage"] = -5
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := invoicePayload(customerID)
			tc.mutate(payload)

			resp := doRequest(t, app, http.MethodPost, "/api/invoices", token, payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			resp.Body.Close()
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestListInvoicesIsOwnerScoped(t *testing.T) {
	app, _, _ := newTestApp(t, false, &fakeSMS{})
	aliceToken := signupAndLogin(t, app, "alice@example.com")
	bobToken := signupAndLogin(t, app, "bob@example.com")

	aliceCustomer := createCustomer(t, app, aliceToken, "Acme")
	bobCustomer := createCustomer(t, app, bobToken, "Bobs Shop")

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", aliceToken, invoicePayload(aliceCustomer))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = doRequest(t, app, http.MethodPost, "/api/invoices", bobToken, invoicePayload(bobCustomer))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bobInvoice := decodeBody(t, resp)

	resp = doRequest(t, app, http.MethodGet, "/api/invoices", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeList(t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, aliceCustomer, list[0]["customer_id"])

	// Direct reads of another user's invoice also miss.
	resp = doRequest(t, app, http.MethodGet, "/api/invoices/"+bobInvoice["id"].(string), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateInvoicePatchesTopLevelOnly(t *testing.T) {
	app, _, _ := newTestApp(t, false, &fakeSMS{})
	token := signupAndLogin(t, app, "alice@example.com")
	customerID := createCustomer(t, app, token, "Acme")

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", token, invoicePayload(customerID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	id := created["id"].(string)

	resp = doRequest(t, app, http.MethodPut, "/api/invoices/"+id, token, map[string]interface{}{
		"status": "paid",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/invoices/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)
	assert.Equal(t, "paid", updated["status"])
	// Items and total stay as created.
	assert.Equal(t, 27.50, updated["total"])
	assert.Len(t, updated["items"], 2)
}

func TestUpdateInvoiceOwnership(t *testing.T) {
	app, _, _ := newTestApp(t, false, &fakeSMS{})
	aliceToken := signupAndLogin(t, app, "alice@example.com")
	bobToken := signupAndLogin(t, app, "bob@example.com")
	bobCustomer := createCustomer(t, app, bobToken, "Bobs Shop")

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", bobToken, invoicePayload(bobCustomer))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bobInvoice := decodeBody(t, resp)
	id := bobInvoice["id"].(string)

	resp = doRequest(t, app, http.MethodPut, "/api/invoices/"+id, aliceToken, map[string]interface{}{
		"status": "paid",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodDelete, "/api/invoices/"+id, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPut, "/api/invoices/"+uuid.NewString(), aliceToken, map[string]interface{}{
		"status": "paid",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteInvoiceCascadesItems(t *testing.T) {
	app, db, _ := newTestApp(t, false, &fakeSMS{})
	token := signupAndLogin(t, app, "alice@example.com")
	customerID := createCustomer(t, app, token, "Acme")

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", token, invoicePayload(customerID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	id := created["id"].(string)

	resp = doRequest(t, app, http.MethodDelete, "/api/invoices/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var items int64
	require.NoError(t, db.Model(&models.InvoiceItem{}).Count(&items).Error)
	assert.EqualValues(t, 0, items)

	// Deleting again reports not found.
	resp = doRequest(t, app, http.MethodDelete, "/api/invoices/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDownloadInvoicePDF(t *testing.T) {
	app, _, _ := newTestApp(t, false, &fakeSMS{})
	token := signupAndLogin(t, app, "alice@example.com")
	customerID := createCustomer(t, app, token, "Acme")

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", token, invoicePayload(customerID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	id := created["id"].(string)

	resp = doRequest(t, app, http.MethodGet, "/api/invoices/"+id+"/pdf", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _, cfg := newTestApp(t, false, &fakeSMS{})

	// Missing token.
	resp := doRequest(t, app, http.MethodGet, "/api/invoices", "", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Malformed token.
	resp = doRequest(t, app, http.MethodGet, "/api/invoices", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Expired token.
	expired, err := utils.GenerateToken(cfg.JWTSecret, uuid.New(), -time.Hour)
	require.NoError(t, err)
	resp = doRequest(t, app, http.MethodGet, "/api/invoices", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
