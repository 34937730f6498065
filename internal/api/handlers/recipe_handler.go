package handlers

import (
	"io"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"CookShare-Backend/domain"
	"CookShare-Backend/internal/api/presenters"
	"CookShare-Backend/pkg/recipe"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		FilterRecipes(c *fiber.Ctx) error
		SaveRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AlternateFavourite(c *fiber.Ctx) error
		PostComment(c *fiber.Ctx) error
		DeleteComment(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	return domain.Fold(h.recipeService.GetRecipes(c.Context()),
		func(recipes []domain.Recipe) error {
			return presenters.SuccessResponse(c, recipes, fiber.StatusOK, domain.MessageSuccessGetRecipes)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, recipeErrorStatus(err), domain.MessageFailedGetRecipes, err)
		},
	)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	recipeID := c.Params("id")
	if recipeID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipeDetail, domain.ErrRecipeNotFound)
	}

	return domain.Fold(h.recipeService.GetRecipeDetail(c.Context(), recipeID),
		func(detail domain.Recipe) error {
			return presenters.SuccessResponse(c, detail, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, recipeErrorStatus(err), domain.MessageFailedGetRecipeDetail, err)
		},
	)
}

// FilterRecipes reads the criterion and its arguments from query params.
func (h *recipeHandler) FilterRecipes(c *fiber.Ctx) error {
	criterion, err := strconv.Atoi(c.Query("criterion", "0"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req := domain.FilterRecipesRequest{
		Criterion:   domain.FilterCriterion(criterion),
		Query:       c.Query("query", ""),
		MinDuration: c.QueryInt("min_duration", 0),
		// An absent upper bound means unbounded, not zero.
		MaxDuration: c.QueryInt("max_duration", math.MaxInt),
		Difficulty:  c.QueryInt("difficulty", 0),
	}

	return domain.Fold(h.recipeService.FilterRecipes(c.Context(), req),
		func(recipes []domain.Recipe) error {
			return presenters.SuccessResponse(c, recipes, fiber.StatusOK, domain.MessageSuccessGetRecipes)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, recipeErrorStatus(err), domain.MessageFailedGetRecipes, err)
		},
	)
}

func (h *recipeHandler) SaveRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SaveRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveRecipe, err)
	}

	// Image is optional; a multipart upload replaces the stored one.
	if file, err := c.FormFile("image"); err == nil {
		opened, err := file.Open()
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
		req.ImageBytes, err = io.ReadAll(opened)
		opened.Close()
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	return domain.Fold(h.recipeService.SaveRecipe(c.Context(), userID, *req),
		func(recipeID string) error {
			return presenters.SuccessResponse(c, fiber.Map{"id": recipeID}, fiber.StatusCreated, domain.MessageSuccessSaveRecipe)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, recipeErrorStatus(err), domain.MessageFailedSaveRecipe, err)
		},
	)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")
	if recipeID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteRecipe, domain.ErrRecipeNotFound)
	}

	return domain.Fold(h.recipeService.DeleteRecipe(c.Context(), userID, recipeID),
		func(domain.Unit) error {
			return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, recipeErrorStatus(err), domain.MessageFailedDeleteRecipe, err)
		},
	)
}

func (h *recipeHandler) AlternateFavourite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AlternateFavouriteRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedFavourite, err)
	}

	return domain.Fold(h.recipeService.AlternateFavourite(c.Context(), userID, *req),
		func(isFavourite bool) error {
			return presenters.SuccessResponse(c, fiber.Map{"is_favourite": isFavourite}, fiber.StatusOK, domain.MessageSuccessFavourite)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, recipeErrorStatus(err), domain.MessageFailedFavourite, err)
		},
	)
}

func (h *recipeHandler) PostComment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.PostCommentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPostComment, err)
	}

	return domain.Fold(h.recipeService.PostComment(c.Context(), userID, *req),
		func(domain.Unit) error {
			return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessPostComment)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, recipeErrorStatus(err), domain.MessageFailedPostComment, err)
		},
	)
}

func (h *recipeHandler) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.DeleteCommentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteComment, err)
	}

	return domain.Fold(h.recipeService.DeleteComment(c.Context(), userID, *req),
		func(domain.Unit) error {
			return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteComment)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, recipeErrorStatus(err), domain.MessageFailedDeleteComment, err)
		},
	)
}

func recipeErrorStatus(err domain.DomainError) int {
	switch e := err.(type) {
	case domain.RecipeError:
		switch e.Kind {
		case domain.RecipeNotFound, domain.CommentNotFound, domain.NoResults:
			return fiber.StatusNotFound
		default:
			return fiber.StatusInternalServerError
		}
	case domain.UserError:
		return userErrorStatus(e)
	default:
		return fiber.StatusBadRequest
	}
}
