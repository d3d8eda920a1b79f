// Package openfoodfacts looks packaged foods up in the Open Food Facts
// database by barcode or name.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/nutri/internal/model"
)

const (
	defaultBaseURL   = "https://world.openfoodfacts.org"
	defaultUserAgent = "nutri/1.0 (+https://github.com/saadjs/nutri)"
)

var (
	ErrNotFound    = errors.New("no openfoodfacts product found")
	ErrUnavailable = errors.New("openfoodfacts is unavailable")
	// ErrInvalidBarcode is returned before any request is made.
	ErrInvalidBarcode = errors.New("barcode must be digits only")
)

type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// LookupBarcode returns the product's nutrition per serving, or per 100g when
// the product has no serving data.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (model.NutritionEstimate, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return model.NutritionEstimate{}, fmt.Errorf("%w: empty", ErrInvalidBarcode)
	}
	for _, r := range barcode {
		if r < '0' || r > '9' {
			return model.NutritionEstimate{}, fmt.Errorf("%w: %q", ErrInvalidBarcode, barcode)
		}
	}

	var parsed productResponse
	if err := c.get(ctx, fmt.Sprintf("/api/v2/product/%s.json", barcode), &parsed); err != nil {
		return model.NutritionEstimate{}, err
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return model.NutritionEstimate{}, fmt.Errorf("%w for barcode %q", ErrNotFound, barcode)
	}
	return parsed.Product.estimate(), nil
}

// SearchFoods returns up to limit named products matching query. No match is
// an empty slice, not an error.
func (c *Client) SearchFoods(ctx context.Context, query string, limit int) ([]model.NutritionEstimate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if limit <= 0 {
		limit = 10
	}
	path := fmt.Sprintf("/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d",
		url.QueryEscape(query), limit)

	var parsed searchResponse
	if err := c.get(ctx, path, &parsed); err != nil {
		return nil, err
	}
	out := make([]model.NutritionEstimate, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		out = append(out, p.estimate())
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	userAgent := c.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return fmt.Errorf("create openfoodfacts request: %w", err)
	}
	// Open Food Facts asks clients to identify themselves.
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	return nil
}

func (p product) estimate() model.NutritionEstimate {
	suffix, serving := p.basis()
	name := strings.TrimSpace(p.ProductName)
	if brand := strings.TrimSpace(strings.Split(p.Brands, ",")[0]); brand != "" {
		name = fmt.Sprintf("%s (%s)", name, brand)
	}
	return model.NutritionEstimate{
		Name:        name,
		Calories:    nutrientValue(p.Nutriments, "energy-kcal", suffix),
		Protein:     nutrientValue(p.Nutriments, "proteins", suffix),
		Carbs:       nutrientValue(p.Nutriments, "carbohydrates", suffix),
		Fat:         nutrientValue(p.Nutriments, "fat", suffix),
		ServingSize: serving,
	}
}

// basis picks per-serving values when the product reports them.
func (p product) basis() (string, string) {
	if _, ok := parseFloatAny(p.Nutriments["energy-kcal_serving"]); ok {
		if p.ServingQuantity > 0 {
			unit := strings.TrimSpace(p.ServingQuantityUnit)
			if unit == "" {
				unit = "g"
			}
			return "_serving", strconv.FormatFloat(p.ServingQuantity, 'f', -1, 64) + unit
		}
		if s := strings.TrimSpace(p.ServingSize); s != "" {
			return "_serving", s
		}
	}
	return "_100g", "100g"
}

func nutrientValue(n map[string]any, name, suffix string) float64 {
	if v, ok := parseFloatAny(n[name+suffix]); ok && v >= 0 {
		return v
	}
	return 0
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type productResponse struct {
	Status  int     `json:"status"`
	Product product `json:"product"`
}

type product struct {
	Code                string         `json:"code"`
	ProductName         string         `json:"product_name"`
	Brands              string         `json:"brands"`
	ServingSize         string         `json:"serving_size"`
	ServingQuantity     float64        `json:"serving_quantity"`
	ServingQuantityUnit string         `json:"serving_quantity_unit"`
	Nutriments          map[string]any `json:"nutriments"`
}

type searchResponse struct {
	Products []product `json:"products"`
}
