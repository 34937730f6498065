package domain

import "fmt"

var (
	MessageSuccessGetProduct = "success get product"
	MessageFailedGetProduct  = "failed to get product"
)

type ProductErrorKind int

const (
	ProductUnknown ProductErrorKind = iota
	NoInternet
	EmptyResponse
	ProductNotFound
	ApiError
)

// ProductError is the closed error set of the product lookup feature.
// ApiError carries the upstream HTTP status code.
type ProductError struct {
	Kind       ProductErrorKind
	StatusCode int
	Message    string
}

func (e ProductError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case NoInternet:
		return "no internet connection"
	case EmptyResponse:
		return "empty response from product API"
	case ProductNotFound:
		return "product not found"
	case ApiError:
		return fmt.Sprintf("product API error: status %d", e.StatusCode)
	}
	return "unknown product error"
}

func (ProductError) domainError() {}

func UnknownProductError(message string) ProductError {
	return ProductError{Kind: ProductUnknown, Message: message}
}

func ProductApiError(statusCode int) ProductError {
	return ProductError{Kind: ApiError, StatusCode: statusCode}
}

var (
	ErrNoInternet      = ProductError{Kind: NoInternet}
	ErrEmptyResponse   = ProductError{Kind: EmptyResponse}
	ErrProductNotFound = ProductError{Kind: ProductNotFound}
)

// Product is read-only and never persisted; one lookup per barcode scan.
type Product struct {
	Barcode     string `json:"barcode"`
	DefaultName string `json:"default_name"`
	NameEN      string `json:"name_en,omitempty"`
	NameIT      string `json:"name_it,omitempty"`
	NameES      string `json:"name_es,omitempty"`
}

// LocalizedName returns the name for a two-letter language code, falling
// back to the default name when the localisation is missing.
func (p Product) LocalizedName(language string) string {
	name := ""
	switch language {
	case "en":
		name = p.NameEN
	case "it":
		name = p.NameIT
	case "es":
		name = p.NameES
	}
	if name == "" {
		return p.DefaultName
	}
	return name
}
