package paypal_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/client/paypal"
)

func newFakeProvider(t *testing.T, captureStatus string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.Header.Get("Authorization"), "Basic ")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
	})

	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Intent        string `json:"intent"`
			PurchaseUnits []struct {
				CustomID string `json:"custom_id"`
				Amount   struct {
					Value    string `json:"value"`
					Currency string `json:"currency_code"`
				} `json:"amount"`
			} `json:"purchase_units"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "CAPTURE", req.Intent)
		require.Len(t, req.PurchaseUnits, 1)
		require.Equal(t, "54.99", req.PurchaseUnits[0].Amount.Value)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ORDER-123", "status": "CREATED"})
	})

	mux.HandleFunc("/v2/checkout/orders/ORDER-123/capture", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "ORDER-123",
			"status": captureStatus,
			"payer":  map[string]string{"email_address": "buyer@example.com"},
			"purchase_units": []map[string]any{
				{
					"custom_id": "u1_7",
					"payments": map[string]any{
						"captures": []map[string]any{
							{
								"id":     "CAP-9",
								"status": captureStatus,
								"amount": map[string]string{"currency_code": "USD", "value": "54.99"},
								"links": []map[string]string{
									{"rel": "self", "href": "https://api.sandbox.paypal.com/v2/payments/captures/CAP-9"},
								},
							},
						},
					},
				},
			},
		})
	})

	mux.HandleFunc("/v1/notifications/verify-webhook-signature", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "wh-id-1", req["webhook_id"])

		status := "FAILURE"
		if req["transmission_sig"] == "good-sig" {
			status = "SUCCESS"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"verification_status": status})
	})

	return httptest.NewServer(mux)
}

func newClient(srvURL string) *paypal.Client {
	return paypal.NewClient(&paypal.Config{
		BaseAPIURL:   srvURL,
		ClientID:     "cid",
		ClientSecret: "secret",
		WebhookID:    "wh-id-1",
		Currency:     "USD",
	})
}

func TestCreateOrderReturnsProviderOrderID(t *testing.T) {
	srv := newFakeProvider(t, "COMPLETED")
	defer srv.Close()

	client := newClient(srv.URL)
	orderID, err := client.CreateOrder(context.Background(), decimal.RequireFromString("54.99"), "USD", "u1_7")
	require.NoError(t, err)
	require.Equal(t, "ORDER-123", orderID)
}

func TestCaptureOrderParsesCompletedCapture(t *testing.T) {
	srv := newFakeProvider(t, "COMPLETED")
	defer srv.Close()

	client := newClient(srv.URL)
	result, err := client.CaptureOrder(context.Background(), "ORDER-123")
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", result.Status)
	require.Equal(t, "CAP-9", result.CaptureID)
	require.Equal(t, "54.99", result.Amount)
	require.Equal(t, "buyer@example.com", result.PayerEmail)
	require.Contains(t, result.ReceiptURL, "CAP-9")
}

func TestVerifyWebhookSignature(t *testing.T) {
	srv := newFakeProvider(t, "COMPLETED")
	defer srv.Close()

	client := newClient(srv.URL)
	event := []byte(`{"event_type":"PAYMENT.CAPTURE.COMPLETED"}`)

	ok, err := client.VerifyWebhookSignature(context.Background(), map[string]string{
		"paypal-transmission-sig": "good-sig",
	}, event)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.VerifyWebhookSignature(context.Background(), map[string]string{
		"paypal-transmission-sig": "bad-sig",
	}, event)
	require.NoError(t, err)
	require.False(t, ok)
}
