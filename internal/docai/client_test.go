package docai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentMapsVendorFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/parse", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"vendor_name": "Harvest Grain Co",
			"vendor_address": "12 Mill Lane, Leeds",
			"vendor_email": "orders@harvestgrain.example",
			"vendor_phone": "0113 496 0000",
			"order_date": "2026-08-14",
			"total_amount": 42.5,
			"line_items": [
				{"item_name": "Wholemeal Flour", "quantity": 2, "unit_cost": 1.8, "total_cost": 3.6}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	got, err := client.ParseDocument(context.Background(), []byte("receipt"), "image/png")
	require.NoError(t, err)

	require.NotNil(t, got.VendorName)
	assert.Equal(t, "Harvest Grain Co", *got.VendorName)
	require.NotNil(t, got.VendorAddress)
	assert.Equal(t, "12 Mill Lane, Leeds", *got.VendorAddress)
	require.NotNil(t, got.OrderDate)
	assert.Equal(t, "2026-08-14", got.OrderDate.Format("2006-01-02"))
	require.NotNil(t, got.TotalAmount)
	assert.InDelta(t, 42.5, *got.TotalAmount, 0.0001)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "Wholemeal Flour", got.LineItems[0].ItemName)
}

func TestParseDocumentErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad document", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.ParseDocument(context.Background(), []byte("receipt"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
