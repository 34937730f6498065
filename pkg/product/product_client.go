package product

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"CookShare-Backend/domain"
)

const (
	defaultBaseURL = "https://world.openfoodfacts.org"

	// The public API asks unauthenticated clients to stay under
	// 100 req/min for product queries.
	requestsPerSecond = 1.5
	requestBurst      = 3
)

type (
	// ProductClient looks up food products by barcode against the
	// Open Food Facts REST API.
	ProductClient interface {
		GetProduct(ctx context.Context, barcode string) (domain.Product, error)
	}

	productClient struct {
		baseURL    string
		httpClient *http.Client
		limiter    *rate.Limiter
	}

	productPayload struct {
		Code    string `json:"code"`
		Status  int    `json:"status"`
		Product *struct {
			ProductName   string `json:"product_name"`
			ProductNameEN string `json:"product_name_en"`
			ProductNameIT string `json:"product_name_it"`
			ProductNameES string `json:"product_name_es"`
		} `json:"product"`
	}
)

func NewProductClient(baseURL string) ProductClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &productClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

func (c *productClient) GetProduct(ctx context.Context, barcode string) (domain.Product, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Product{}, err
	}

	url := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Product{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Product{}, domain.ErrNoInternet
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Product{}, domain.ProductApiError(resp.StatusCode)
	}

	var payload productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Product{}, domain.ErrEmptyResponse
	}
	// Status 0 means the barcode exists in no catalogue.
	if payload.Status == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if payload.Product == nil || payload.Product.ProductName == "" {
		return domain.Product{}, domain.ErrEmptyResponse
	}

	return domain.Product{
		Barcode:     payload.Code,
		DefaultName: payload.Product.ProductName,
		NameEN:      payload.Product.ProductNameEN,
		NameIT:      payload.Product.ProductNameIT,
		NameES:      payload.Product.ProductNameES,
	}, nil
}
