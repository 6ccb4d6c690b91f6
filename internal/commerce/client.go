// Package commerce fetches catalog and company data from the commerce
// platform's GraphQL Admin API.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linecraft/linesheet/internal/catalog"
)

const defaultTimeout = 10 * time.Second

const catalogQuery = `query Catalog($id: ID!) {
  catalog(id: $id) {
    id name seasonYear startShip completeShip
    products {
      name styleNumber color colorCode season evergreen
      countryOfOrigin fabrication materialComposition
      category subcategory sizeBreak image
      wholesalePrice suggRetailPrice
    }
  }
}`

const companyQuery = `query Company($locationId: ID!) {
  companyLocation(id: $locationId) {
    company { name externalId }
  }
}`

// Client is a GraphQL client for the commerce platform. When mock mode is
// enabled it serves fixture data instead of calling the network; mock mode is
// an explicit development convenience and every mock response is logged.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	mock       bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// WithMockData switches the client to fixture responses. Never enable this
// in production: the generator would silently ship fabricated catalogs.
func WithMockData(mock bool) Option {
	return func(cl *Client) { cl.mock = mock }
}

// New creates a Client for the given GraphQL endpoint and access token.
func New(endpoint, token string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CatalogsByIDs fetches each catalog with its ordered product list. Any
// upstream failure is returned to the caller; missing catalogs are skipped.
func (c *Client) CatalogsByIDs(ctx context.Context, ids []string) ([]catalog.Catalog, error) {
	if c.mock {
		c.logger.Warn("MOCK DATA MODE: serving fixture catalogs, not live data", "ids", ids)
		return mockCatalogs(ids), nil
	}

	out := make([]catalog.Catalog, 0, len(ids))
	for _, id := range ids {
		var resp struct {
			Data struct {
				Catalog *struct {
					ID           string        `json:"id"`
					Name         string        `json:"name"`
					SeasonYear   string        `json:"seasonYear"`
					StartShip    string        `json:"startShip"`
					CompleteShip string        `json:"completeShip"`
					Products     []productNode `json:"products"`
				} `json:"catalog"`
			} `json:"data"`
		}
		if err := c.query(ctx, catalogQuery, map[string]any{"id": id}, &resp); err != nil {
			return nil, fmt.Errorf("fetch catalog %q: %w", id, err)
		}
		node := resp.Data.Catalog
		if node == nil {
			c.logger.Warn("catalog not found upstream, skipping", "id", id)
			continue
		}

		cat := catalog.Catalog{
			ID:           node.ID,
			Name:         node.Name,
			SeasonYear:   node.SeasonYear,
			StartShip:    node.StartShip,
			CompleteShip: node.CompleteShip,
		}
		for _, p := range node.Products {
			cat.Products = append(cat.Products, p.toProduct())
		}
		out = append(out, cat)
	}
	return out, nil
}

// CompanyByLocation fetches the requesting company's identity.
func (c *Client) CompanyByLocation(ctx context.Context, locationID string) (catalog.Company, error) {
	if c.mock {
		c.logger.Warn("MOCK DATA MODE: serving fixture company, not live data", "locationId", locationID)
		return catalog.Company{Name: "Mock Retail Co", Metadata: map[string]string{"mock": "true"}}, nil
	}

	var resp struct {
		Data struct {
			CompanyLocation *struct {
				Company struct {
					Name       string `json:"name"`
					ExternalID string `json:"externalId"`
				} `json:"company"`
			} `json:"companyLocation"`
		} `json:"data"`
	}
	if err := c.query(ctx, companyQuery, map[string]any{"locationId": locationID}, &resp); err != nil {
		return catalog.Company{}, fmt.Errorf("fetch company for location %q: %w", locationID, err)
	}
	if resp.Data.CompanyLocation == nil {
		return catalog.Company{}, fmt.Errorf("company location %q not found", locationID)
	}

	company := resp.Data.CompanyLocation.Company
	return catalog.Company{
		Name:     company.Name,
		Metadata: map[string]string{"externalId": company.ExternalID},
	}, nil
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("graphql status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var gqlErrs struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &gqlErrs); err == nil && len(gqlErrs.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", gqlErrs.Errors[0].Message)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type productNode struct {
	Name                string `json:"name"`
	StyleNumber         string `json:"styleNumber"`
	Color               string `json:"color"`
	ColorCode           string `json:"colorCode"`
	Season              string `json:"season"`
	Evergreen           string `json:"evergreen"`
	CountryOfOrigin     string `json:"countryOfOrigin"`
	Fabrication         string `json:"fabrication"`
	MaterialComposition string `json:"materialComposition"`
	Category            string `json:"category"`
	Subcategory         string `json:"subcategory"`
	SizeBreak           string `json:"sizeBreak"`
	Image               string `json:"image"`
	WholesalePrice      string `json:"wholesalePrice"`
	SuggRetailPrice     string `json:"suggRetailPrice"`
}

func (p productNode) toProduct() catalog.Product {
	return catalog.Product{
		Name:                p.Name,
		StyleNumber:         p.StyleNumber,
		Color:               p.Color,
		ColorCode:           p.ColorCode,
		Season:              p.Season,
		Evergreen:           p.Evergreen,
		CountryOfOrigin:     p.CountryOfOrigin,
		Fabrication:         p.Fabrication,
		MaterialComposition: p.MaterialComposition,
		Category:            p.Category,
		Subcategory:         p.Subcategory,
		SizeBreak:           p.SizeBreak,
		Image:               p.Image,
		WholesalePrice:      parsePrice(p.WholesalePrice),
		SuggRetailPrice:     parsePrice(p.SuggRetailPrice),
	}
}

// parsePrice is permissive: absent or malformed prices default to zero.
func parsePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
