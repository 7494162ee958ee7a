// internal/docai/client.go
//
// Client for an optional document-understanding service. When configured and
// reachable it returns structured receipt fields directly; the caller falls
// back to OCR plus the heuristic parser otherwise.
package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
)

const requestTimeout = 30 * time.Second

type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

type parseRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

type parseResponse struct {
	VendorName    *string  `json:"vendor_name"`
	VendorAddress *string  `json:"vendor_address"`
	VendorEmail   *string  `json:"vendor_email"`
	VendorPhone   *string  `json:"vendor_phone"`
	OrderDate     *string  `json:"order_date"`
	TotalAmount   *float64 `json:"total_amount"`
	LineItems     []struct {
		ItemName  string  `json:"item_name"`
		Quantity  float64 `json:"quantity"`
		UnitCost  float64 `json:"unit_cost"`
		TotalCost float64 `json:"total_cost"`
	} `json:"line_items"`
}

// ParseDocument submits one document for structured extraction.
func (c *Client) ParseDocument(ctx context.Context, data []byte, contentType string) (*domain.ParsedReceipt, error) {
	payload, err := json.Marshal(parseRequest{
		Content:     base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/parse", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("docai returned %d: %s", resp.StatusCode, body)
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode docai response: %w", err)
	}

	return toDomain(&parsed), nil
}

func toDomain(p *parseResponse) *domain.ParsedReceipt {
	receipt := &domain.ParsedReceipt{
		VendorName:    p.VendorName,
		VendorAddress: p.VendorAddress,
		VendorEmail:   p.VendorEmail,
		VendorPhone:   p.VendorPhone,
		TotalAmount:   p.TotalAmount,
	}

	if p.OrderDate != nil {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, *p.OrderDate); err == nil {
				receipt.OrderDate = &t
				break
			}
		}
	}

	for _, item := range p.LineItems {
		receipt.LineItems = append(receipt.LineItems, domain.ReceiptLineItem{
			ItemName:  item.ItemName,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			TotalCost: item.TotalCost,
		})
	}

	return receipt
}
