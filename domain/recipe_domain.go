package domain

import "time"

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessSaveRecipe      = "recipe saved successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessFavourite       = "favourite updated successfully"
	MessageSuccessPostComment     = "comment posted successfully"
	MessageSuccessDeleteComment   = "comment deleted successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedSaveRecipe      = "failed to save recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedFavourite       = "failed to update favourite"
	MessageFailedPostComment     = "failed to post comment"
	MessageFailedDeleteComment   = "failed to delete comment"
)

type RecipeErrorKind int

const (
	RecipeUnknown RecipeErrorKind = iota
	RecipeNotFound
	CommentNotFound
	NoResults
)

// RecipeError is the closed error set of the recipe feature.
type RecipeError struct {
	Kind    RecipeErrorKind
	Message string
}

func (e RecipeError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case RecipeNotFound:
		return "recipe not found"
	case CommentNotFound:
		return "comment not found"
	case NoResults:
		return "no recipes found"
	}
	return "unknown recipe error"
}

func (RecipeError) domainError() {}

func UnknownRecipeError(message string) RecipeError {
	return RecipeError{Kind: RecipeUnknown, Message: message}
}

var (
	ErrRecipeNotFound  = RecipeError{Kind: RecipeNotFound}
	ErrCommentNotFound = RecipeError{Kind: CommentNotFound}
	ErrNoResults       = RecipeError{Kind: NoResults}
)

// Filter criteria for in-memory recipe filtering.
type FilterCriterion int

const (
	FilterByTitle FilterCriterion = iota
	FilterByIngredient
	FilterByDuration
	FilterByDifficulty
)

type (
	Recipe struct {
		ID              string    `json:"id"`
		Title           string    `json:"title"`
		ImageURL        string    `json:"image_url,omitempty"`
		VideoURL        string    `json:"video_url,omitempty"`
		Ingredients     []string  `json:"ingredients"`
		Steps           []string  `json:"steps"`
		Categories      []string  `json:"categories"`
		Comments        []Comment `json:"comments"`
		FavouriteCount  int       `json:"favourite_count"`
		DurationMinutes int       `json:"duration_minutes"`
		Difficulty      int       `json:"difficulty"`
		Author          Author    `json:"author"`
		CreatedAt       time.Time `json:"created_at"`
	}

	SaveRecipeRequest struct {
		ID              string   `json:"id"`
		Title           string   `json:"title" validate:"required"`
		VideoURL        string   `json:"video_url"`
		Ingredients     []string `json:"ingredients" validate:"required,min=1"`
		Steps           []string `json:"steps" validate:"required,min=1"`
		Categories      []string `json:"categories"`
		DurationMinutes int      `json:"duration_minutes" validate:"gte=0"`
		Difficulty      int      `json:"difficulty" validate:"gte=0,lte=2"`
		ImageBytes      []byte   `json:"-"`
	}

	FilterRecipesRequest struct {
		Criterion   FilterCriterion `json:"criterion"`
		Query       string          `json:"query"`
		MinDuration int             `json:"min_duration"`
		MaxDuration int             `json:"max_duration"`
		Difficulty  int             `json:"difficulty"`
	}

	PostCommentRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,uuid"`
		Content  string `json:"content" validate:"required"`
	}

	DeleteCommentRequest struct {
		RecipeID  string    `json:"recipe_id" validate:"required,uuid"`
		CreatedAt time.Time `json:"created_at" validate:"required"`
	}

	AlternateFavouriteRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,uuid"`
	}
)
