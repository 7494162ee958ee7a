// internal/pos/client.go
//
// Client for a Square-compatible point-of-sale API. The bakery's catalog
// and sales ledger live there; sync pulls both down. Money comes back in
// minor units and is converted at the edge.
package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const requestTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	token      string
	locationID string
	httpClient *http.Client
}

func NewClient(baseURL, token, locationID string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		locationID: locationID,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Enabled reports whether the client has credentials to work with.
func (c *Client) Enabled() bool {
	return c.token != ""
}

// CatalogItem is one sellable item from the POS catalog.
type CatalogItem struct {
	ID       string
	Name     string
	Price    float64
	Category string
}

// Transaction is one sold line item, flattened from the POS order feed. ID
// is unique per line so imports can deduplicate.
type Transaction struct {
	ID          string
	ItemName    string
	Quantity    int
	TotalAmount float64
	Timestamp   time.Time
}

type money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type catalogListResponse struct {
	Cursor  string `json:"cursor"`
	Objects []struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		ItemData struct {
			Name       string `json:"name"`
			CategoryID string `json:"category_id"`
			Variations []struct {
				ItemVariationData struct {
					PriceMoney *money `json:"price_money"`
				} `json:"item_variation_data"`
			} `json:"variations"`
		} `json:"item_data"`
	} `json:"objects"`
}

// ListCatalog pages through the catalog and returns every item.
func (c *Client) ListCatalog(ctx context.Context) ([]CatalogItem, error) {
	var items []CatalogItem
	cursor := ""

	for {
		url := c.baseURL + "/v2/catalog/list?types=ITEM"
		if cursor != "" {
			url += "&cursor=" + cursor
		}

		var page catalogListResponse
		if err := c.get(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("failed to list catalog: %w", err)
		}

		for _, obj := range page.Objects {
			if obj.Type != "" && obj.Type != "ITEM" {
				continue
			}

			item := CatalogItem{
				ID:       obj.ID,
				Name:     obj.ItemData.Name,
				Category: obj.ItemData.CategoryID,
			}
			if len(obj.ItemData.Variations) > 0 {
				if pm := obj.ItemData.Variations[0].ItemVariationData.PriceMoney; pm != nil {
					item.Price = float64(pm.Amount) / 100
				}
			}
			items = append(items, item)
		}

		cursor = page.Cursor
		if cursor == "" {
			break
		}
	}

	return items, nil
}

type searchOrdersRequest struct {
	LocationIDs []string `json:"location_ids"`
	Cursor      string   `json:"cursor,omitempty"`
	Query       struct {
		Filter struct {
			DateTimeFilter struct {
				CreatedAt struct {
					StartAt string `json:"start_at"`
				} `json:"created_at"`
			} `json:"date_time_filter"`
		} `json:"filter"`
	} `json:"query"`
}

type searchOrdersResponse struct {
	Cursor string `json:"cursor"`
	Orders []struct {
		ID        string `json:"id"`
		CreatedAt string `json:"created_at"`
		LineItems []struct {
			UID        string `json:"uid"`
			Name       string `json:"name"`
			Quantity   string `json:"quantity"`
			TotalMoney *money `json:"total_money"`
		} `json:"line_items"`
	} `json:"orders"`
}

// ListTransactions returns every sold line item created since the cutoff,
// flattened to one transaction per line.
func (c *Client) ListTransactions(ctx context.Context, since time.Time) ([]Transaction, error) {
	var txns []Transaction
	cursor := ""

	for {
		req := searchOrdersRequest{LocationIDs: []string{c.locationID}, Cursor: cursor}
		req.Query.Filter.DateTimeFilter.CreatedAt.StartAt = since.UTC().Format(time.RFC3339)

		var page searchOrdersResponse
		if err := c.post(ctx, c.baseURL+"/v2/orders/search", req, &page); err != nil {
			return nil, fmt.Errorf("failed to search orders: %w", err)
		}

		for _, order := range page.Orders {
			ts, err := time.Parse(time.RFC3339, order.CreatedAt)
			if err != nil {
				ts = time.Now().UTC()
			}

			for i, line := range order.LineItems {
				qty, err := strconv.Atoi(line.Quantity)
				if err != nil || qty <= 0 {
					qty = 1
				}

				lineKey := line.UID
				if lineKey == "" {
					lineKey = strconv.Itoa(i)
				}

				txn := Transaction{
					ID:        order.ID + ":" + lineKey,
					ItemName:  line.Name,
					Quantity:  qty,
					Timestamp: ts,
				}
				if line.TotalMoney != nil {
					txn.TotalAmount = float64(line.TotalMoney.Amount) / 100
				}
				txns = append(txns, txn)
			}
		}

		cursor = page.Cursor
		if cursor == "" {
			break
		}
	}

	return txns, nil
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("pos api returned %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
