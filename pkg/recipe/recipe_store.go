package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"CookShare-Backend/domain"
	"CookShare-Backend/entities"
	"CookShare-Backend/internal/utils/storage"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type (
	// RecipeStore is the cached repository over the remote facade. It owns
	// the in-memory recipe list, maps entities to domain models (resolving
	// image keys to URLs) and never lets a facade error escape as anything
	// but a RecipeError.
	RecipeStore interface {
		GetAll(ctx context.Context) domain.Result[[]domain.Recipe]
		GetByID(ctx context.Context, id string) domain.Result[domain.Recipe]
		Filter(ctx context.Context, req domain.FilterRecipesRequest) domain.Result[[]domain.Recipe]
		UpdateFavouriteCount(ctx context.Context, id string, isNewFavourite bool) domain.Result[domain.Unit]
		Save(ctx context.Context, req domain.SaveRecipeRequest, author domain.Author) domain.Result[string]
		Delete(ctx context.Context, id string) domain.Result[domain.Unit]
		PostComment(ctx context.Context, recipeID string, comment domain.Comment) domain.Result[domain.Unit]
		DeleteComment(ctx context.Context, recipeID string, createdAt time.Time, authorID string) domain.Result[domain.Unit]
		ClearCache()
	}

	recipeStore struct {
		repository RecipeRepository
		s3         storage.AwsS3

		mu     sync.Mutex
		cached []domain.Recipe
		flight singleflight.Group
	}
)

func NewRecipeStore(repository RecipeRepository, s3 storage.AwsS3) RecipeStore {
	return &recipeStore{
		repository: repository,
		s3:         s3,
	}
}

// GetAll serves the cached list when populated; a cold cache triggers at
// most one remote fetch, with concurrent callers joining the in-flight one.
// An empty remote result is an error and leaves the cache cold. Callers
// always receive a snapshot copy: cached elements are mutated in place
// under the mutex, so the internal slice must never escape.
func (s *recipeStore) GetAll(ctx context.Context) domain.Result[[]domain.Recipe] {
	s.mu.Lock()
	if len(s.cached) > 0 {
		cached := copyRecipes(s.cached)
		s.mu.Unlock()
		return domain.Ok(cached)
	}
	s.mu.Unlock()

	value, err, _ := s.flight.Do("recipes", func() (any, error) {
		remote, err := s.repository.GetRecipes(ctx)
		if err != nil {
			return nil, err
		}

		recipes := make([]domain.Recipe, 0, len(remote))
		for _, record := range remote {
			recipes = append(recipes, s.toDomain(record))
		}
		if len(recipes) == 0 {
			return nil, domain.ErrNoResults
		}

		s.mu.Lock()
		s.cached = recipes
		s.mu.Unlock()
		return recipes, nil
	})
	if err != nil {
		var recipeErr domain.RecipeError
		if errors.As(err, &recipeErr) {
			return domain.Err[[]domain.Recipe](recipeErr)
		}
		return domain.Err[[]domain.Recipe](domain.UnknownRecipeError(err.Error()))
	}

	s.mu.Lock()
	recipes := copyRecipes(value.([]domain.Recipe))
	s.mu.Unlock()
	return domain.Ok(recipes)
}

// GetByID scans the cache first; a miss costs exactly one remote fetch and
// does not populate the cache.
func (s *recipeStore) GetByID(ctx context.Context, id string) domain.Result[domain.Recipe] {
	s.mu.Lock()
	for i := range s.cached {
		if s.cached[i].ID == id {
			hit := copyRecipe(s.cached[i])
			s.mu.Unlock()
			return domain.Ok(hit)
		}
	}
	s.mu.Unlock()

	record, err := s.repository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.Recipe](domain.ErrRecipeNotFound)
		}
		return domain.Err[domain.Recipe](domain.UnknownRecipeError(err.Error()))
	}
	return domain.Ok(s.toDomain(record))
}

func (s *recipeStore) Filter(ctx context.Context, req domain.FilterRecipesRequest) domain.Result[[]domain.Recipe] {
	all := s.GetAll(ctx)
	if all.IsFailure() {
		return all
	}

	var matched []domain.Recipe
	for _, recipe := range all.Value() {
		if matchesFilter(recipe, req) {
			matched = append(matched, recipe)
		}
	}
	if len(matched) == 0 {
		return domain.Err[[]domain.Recipe](domain.ErrNoResults)
	}
	return domain.Ok(matched)
}

func matchesFilter(recipe domain.Recipe, req domain.FilterRecipesRequest) bool {
	switch req.Criterion {
	case domain.FilterByTitle:
		return strings.Contains(
			strings.ToLower(recipe.Title),
			strings.ToLower(req.Query),
		)
	case domain.FilterByIngredient:
		query := strings.ToLower(req.Query)
		for _, ingredient := range recipe.Ingredients {
			if strings.Contains(strings.ToLower(ingredient), query) {
				return true
			}
		}
		return false
	case domain.FilterByDuration:
		return recipe.DurationMinutes >= req.MinDuration &&
			recipe.DurationMinutes <= req.MaxDuration
	case domain.FilterByDifficulty:
		return recipe.Difficulty == req.Difficulty
	}
	return false
}

// UpdateFavouriteCount moves the remote counter by exactly one, then keeps
// the cached copy in step. A failed remote call never touches the cache.
func (s *recipeStore) UpdateFavouriteCount(ctx context.Context, id string, isNewFavourite bool) domain.Result[domain.Unit] {
	delta := 1
	if !isNewFavourite {
		delta = -1
	}

	if err := s.repository.AdjustFavouriteCount(ctx, id, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.Unit](domain.ErrRecipeNotFound)
		}
		return domain.Err[domain.Unit](domain.UnknownRecipeError(err.Error()))
	}

	s.mu.Lock()
	for i := range s.cached {
		if s.cached[i].ID == id {
			s.cached[i].FavouriteCount += delta
			if s.cached[i].FavouriteCount < 0 {
				s.cached[i].FavouriteCount = 0
			}
			break
		}
	}
	s.mu.Unlock()
	return domain.OkUnit()
}

// Save persists a new or overwritten recipe and returns the assigned id.
// It does not update the cache; callers invalidate it.
func (s *recipeStore) Save(ctx context.Context, req domain.SaveRecipeRequest, author domain.Author) domain.Result[string] {
	recipeID := uuid.New()
	if req.ID != "" {
		parsed, err := uuid.Parse(req.ID)
		if err != nil {
			return domain.Err[string](domain.UnknownRecipeError(domain.ErrParseUUID.Error()))
		}
		recipeID = parsed
	}

	authorID, err := uuid.Parse(author.ID)
	if err != nil {
		return domain.Err[string](domain.UnknownRecipeError(domain.ErrParseUUID.Error()))
	}

	imageKey := ""
	if len(req.ImageBytes) > 0 {
		key := fmt.Sprintf("recipes/%s.jpg", recipeID)
		if _, err := s.s3.UploadFile(ctx, key, "image/jpeg", req.ImageBytes); err != nil {
			return domain.Err[string](domain.UnknownRecipeError(err.Error()))
		}
		imageKey = key
	}

	record := &entities.Recipe{
		ID:               recipeID,
		UserID:           authorID,
		Title:            req.Title,
		ImageKey:         imageKey,
		VideoURL:         req.VideoURL,
		Ingredients:      encodeList(req.Ingredients),
		Steps:            encodeList(req.Steps),
		Categories:       encodeList(req.Categories),
		DurationMinutes:  req.DurationMinutes,
		Difficulty:       req.Difficulty,
		AuthorUsername:   author.Username,
		AuthorPictureURL: author.PictureURL,
	}

	if err := s.repository.SaveRecipe(ctx, record); err != nil {
		return domain.Err[string](domain.UnknownRecipeError(err.Error()))
	}
	return domain.Ok(recipeID.String())
}

// Delete removes the recipe and, when it carried an uploaded image, the
// stored object behind it. A missing object is not an error.
func (s *recipeStore) Delete(ctx context.Context, id string) domain.Result[domain.Unit] {
	record, err := s.repository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.Unit](domain.ErrRecipeNotFound)
		}
		return domain.Err[domain.Unit](domain.UnknownRecipeError(err.Error()))
	}

	if err := s.repository.DeleteRecipe(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.Unit](domain.ErrRecipeNotFound)
		}
		return domain.Err[domain.Unit](domain.UnknownRecipeError(err.Error()))
	}

	if record.ImageKey != "" {
		_ = s.s3.DeleteFile(ctx, record.ImageKey)
	}
	return domain.OkUnit()
}

func (s *recipeStore) PostComment(ctx context.Context, recipeID string, comment domain.Comment) domain.Result[domain.Unit] {
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.Err[domain.Unit](domain.UnknownRecipeError(domain.ErrParseUUID.Error()))
	}
	authorUUID, err := uuid.Parse(comment.Author.ID)
	if err != nil {
		return domain.Err[domain.Unit](domain.UnknownRecipeError(domain.ErrParseUUID.Error()))
	}

	record := &entities.Comment{
		ID:               uuid.New(),
		RecipeID:         recipeUUID,
		UserID:           authorUUID,
		Content:          comment.Content,
		AuthorUsername:   comment.Author.Username,
		AuthorPictureURL: comment.Author.PictureURL,
		CreatedAt:        comment.CreatedAt,
	}
	if err := s.repository.AddComment(ctx, record); err != nil {
		return domain.Err[domain.Unit](domain.UnknownRecipeError(err.Error()))
	}

	s.mu.Lock()
	for i := range s.cached {
		if s.cached[i].ID == recipeID {
			s.cached[i].Comments = append(s.cached[i].Comments, comment)
			break
		}
	}
	s.mu.Unlock()
	return domain.OkUnit()
}

// DeleteComment matches by recipe id + creation timestamp + author id; the
// timestamp is the comment's identity key.
func (s *recipeStore) DeleteComment(ctx context.Context, recipeID string, createdAt time.Time, authorID string) domain.Result[domain.Unit] {
	if err := s.repository.RemoveComment(ctx, recipeID, createdAt, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.Unit](domain.ErrCommentNotFound)
		}
		return domain.Err[domain.Unit](domain.UnknownRecipeError(err.Error()))
	}

	s.mu.Lock()
	for i := range s.cached {
		if s.cached[i].ID != recipeID {
			continue
		}
		comments := make([]domain.Comment, 0, len(s.cached[i].Comments))
		for _, comment := range s.cached[i].Comments {
			if comment.CreatedAt.Equal(createdAt) && comment.Author.ID == authorID {
				continue
			}
			comments = append(comments, comment)
		}
		s.cached[i].Comments = comments
		break
	}
	s.mu.Unlock()
	return domain.OkUnit()
}

func (s *recipeStore) ClearCache() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *recipeStore) toDomain(record *entities.Recipe) domain.Recipe {
	comments := make([]domain.Comment, 0, len(record.Comments))
	for _, comment := range record.Comments {
		comments = append(comments, domain.Comment{
			Author: domain.Author{
				ID:         comment.UserID.String(),
				Username:   comment.AuthorUsername,
				PictureURL: comment.AuthorPictureURL,
			},
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		})
	}

	return domain.Recipe{
		ID:              record.ID.String(),
		Title:           record.Title,
		ImageURL:        s.s3.PublicURL(record.ImageKey),
		VideoURL:        record.VideoURL,
		Ingredients:     decodeList(record.Ingredients),
		Steps:           decodeList(record.Steps),
		Categories:      decodeList(record.Categories),
		Comments:        comments,
		FavouriteCount:  record.FavouriteCount,
		DurationMinutes: record.DurationMinutes,
		Difficulty:      record.Difficulty,
		Author: domain.Author{
			ID:         record.UserID.String(),
			Username:   record.AuthorUsername,
			PictureURL: record.AuthorPictureURL,
		},
		CreatedAt: record.CreatedAt,
	}
}

// copyRecipe detaches the one field the store mutates in place after a
// recipe has been handed out. The other slices are never written once built.
func copyRecipe(recipe domain.Recipe) domain.Recipe {
	comments := make([]domain.Comment, len(recipe.Comments))
	copy(comments, recipe.Comments)
	recipe.Comments = comments
	return recipe
}

func copyRecipes(recipes []domain.Recipe) []domain.Recipe {
	out := make([]domain.Recipe, len(recipes))
	for i := range recipes {
		out[i] = copyRecipe(recipes[i])
	}
	return out
}

func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func decodeList(encoded string) []string {
	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return []string{}
	}
	return values
}
