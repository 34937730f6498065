package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CookShare-Backend/domain"
	"CookShare-Backend/pkg/product"
	"CookShare-Backend/pkg/recipe"
	"CookShare-Backend/pkg/user"
)

type stubRecipeService struct {
	recipe.RecipeService
	filter func(req domain.FilterRecipesRequest) domain.Result[[]domain.Recipe]
}

func (s *stubRecipeService) FilterRecipes(ctx context.Context, req domain.FilterRecipesRequest) domain.Result[[]domain.Recipe] {
	return s.filter(req)
}

type stubProductService struct {
	product.ProductService
	found domain.Product
}

func (s *stubProductService) GetByBarcode(ctx context.Context, barcode string) domain.Result[domain.Product] {
	return domain.Ok(s.found)
}

type stubUserService struct {
	user.UserService
	language string
}

func (s *stubUserService) Language(ctx context.Context, sessionID string) domain.Result[string] {
	return domain.Ok(s.language)
}

func TestRecipeHandler_FilterRecipes_DurationDefaults(t *testing.T) {
	var captured domain.FilterRecipesRequest
	service := &stubRecipeService{
		filter: func(req domain.FilterRecipesRequest) domain.Result[[]domain.Recipe] {
			captured = req
			return domain.Ok([]domain.Recipe{{Title: "Test Recipe"}})
		},
	}

	app := fiber.New()
	handler := NewRecipeHandler(service, validator.New())
	app.Get("/api/v1/recipes/filter", handler.FilterRecipes)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet,
		"/api/v1/recipes/filter?criterion=2&min_duration=15", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, domain.FilterByDuration, captured.Criterion)
	assert.Equal(t, 15, captured.MinDuration)
	// A lower bound alone leaves the range open above.
	assert.Equal(t, math.MaxInt, captured.MaxDuration)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet,
		"/api/v1/recipes/filter?criterion=2&min_duration=15&max_duration=45", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 45, captured.MaxDuration)
}

func TestProductHandler_GetProduct_LocalizesName(t *testing.T) {
	found := domain.Product{
		Barcode:     "8001234567890",
		DefaultName: "Acqua",
		NameEN:      "Water",
		NameIT:      "Acqua Minerale",
	}

	app := fiber.New()
	handler := NewProductHandler(
		&stubProductService{found: found},
		&stubUserService{language: "it"},
	)
	app.Get("/api/v1/products/:barcode", handler.GetProduct)

	request := httptest.NewRequest(fiber.MethodGet, "/api/v1/products/8001234567890", nil)
	request.Header.Set("X-Session-Id", "device-1")
	resp, err := app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Acqua Minerale", body.Data.Name)
}
