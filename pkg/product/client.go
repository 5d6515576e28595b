// Package product provides a client for resolving barcodes to product
// records via an Open Food Facts compatible API. The engine only consumes
// the resolved ingredient text; everything else about the product is the
// lookup service's business.
package product

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/labelscan/labelscan-engine/pkg/apperrors"
	"github.com/labelscan/labelscan-engine/pkg/models"
)

// DefaultTimeout is the maximum time to wait for the product API.
const DefaultTimeout = 15 * time.Second

// Info is the subset of a product record the engine cares about.
type Info struct {
	Barcode          string
	Name             string
	IngredientTextEn string
	IngredientTextZh string
}

// IngredientText returns the ingredient list for the requested language,
// falling back to the other locale.
func (p *Info) IngredientText(lang models.Language) string {
	if lang == models.LanguageZh {
		if p.IngredientTextZh != "" {
			return p.IngredientTextZh
		}
		return p.IngredientTextEn
	}
	if p.IngredientTextEn != "" {
		return p.IngredientTextEn
	}
	return p.IngredientTextZh
}

// Client queries an Open Food Facts compatible product API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a product lookup client. baseURL is the API root,
// e.g. "https://world.openfoodfacts.org".
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("product"),
	}
}

// productResponse mirrors the Open Food Facts v2 product payload.
type productResponse struct {
	Status  int    `json:"status"`
	Product struct {
		ProductName       string `json:"product_name"`
		IngredientsText   string `json:"ingredients_text"`
		IngredientsTextEn string `json:"ingredients_text_en"`
		IngredientsTextZh string `json:"ingredients_text_zh"`
	} `json:"product"`
}

// Lookup resolves a barcode to a product record. Returns
// apperrors.ErrProductNotFound when the barcode is unknown to the service.
func (c *Client) Lookup(ctx context.Context, barcode string) (*Info, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("barcode is empty")
	}

	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Looking up product",
		zap.String("barcode", barcode),
		zap.String("url", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call product API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Product API returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("barcode", barcode))
		return nil, fmt.Errorf("product API returned status %d", resp.StatusCode)
	}

	var pr productResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse product response: %w", err)
	}
	if pr.Status == 0 {
		return nil, apperrors.ErrProductNotFound
	}

	info := &Info{
		Barcode:          barcode,
		Name:             pr.Product.ProductName,
		IngredientTextEn: pr.Product.IngredientsTextEn,
		IngredientTextZh: pr.Product.IngredientsTextZh,
	}
	if info.IngredientTextEn == "" {
		info.IngredientTextEn = pr.Product.IngredientsText
	}
	return info, nil
}

// ResolveIngredients resolves a barcode straight to ingredient text for the
// analyze path. A product without any ingredient text is reported as not
// found: the engine has nothing to work with either way.
func (c *Client) ResolveIngredients(ctx context.Context, barcode string, lang models.Language) (string, error) {
	info, err := c.Lookup(ctx, barcode)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(info.IngredientText(lang))
	if text == "" {
		return "", apperrors.ErrProductNotFound
	}
	return text, nil
}
