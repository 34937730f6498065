package handlers

import (
	"github.com/gofiber/fiber/v2"

	"CookShare-Backend/domain"
	"CookShare-Backend/internal/api/presenters"
	"CookShare-Backend/pkg/product"
	"CookShare-Backend/pkg/user"
)

type (
	ProductHandler interface {
		GetProduct(c *fiber.Ctx) error
	}

	productHandler struct {
		productService product.ProductService
		userService    user.UserService
	}
)

func NewProductHandler(productService product.ProductService, userService user.UserService) ProductHandler {
	return &productHandler{productService: productService, userService: userService}
}

func (h *productHandler) GetProduct(c *fiber.Ctx) error {
	barcode := c.Params("barcode")
	if barcode == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetProduct, domain.ErrProductNotFound)
	}

	// The product name follows the session's saved language; no session or
	// no saved code falls back to the default name.
	language := ""
	if sid := sessionID(c); sid != "" {
		if saved := h.userService.Language(c.Context(), sid); saved.IsSuccess() {
			language = saved.Value()
		}
	}

	return domain.Fold(h.productService.GetByBarcode(c.Context(), barcode),
		func(found domain.Product) error {
			return presenters.SuccessResponse(c, fiber.Map{
				"product": found,
				"name":    found.LocalizedName(language),
			}, fiber.StatusOK, domain.MessageSuccessGetProduct)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, productErrorStatus(err), domain.MessageFailedGetProduct, err)
		},
	)
}

func productErrorStatus(err domain.DomainError) int {
	pe, ok := err.(domain.ProductError)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch pe.Kind {
	case domain.ProductNotFound:
		return fiber.StatusNotFound
	case domain.NoInternet, domain.ApiError, domain.EmptyResponse:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
