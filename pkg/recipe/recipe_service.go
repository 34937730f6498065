package recipe

import (
	"context"
	"time"

	"CookShare-Backend/domain"
	"CookShare-Backend/pkg/stats"
	"CookShare-Backend/pkg/user"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context) domain.Result[[]domain.Recipe]
		GetRecipeDetail(ctx context.Context, id string) domain.Result[domain.Recipe]
		FilterRecipes(ctx context.Context, req domain.FilterRecipesRequest) domain.Result[[]domain.Recipe]
		SaveRecipe(ctx context.Context, userID string, req domain.SaveRecipeRequest) domain.Result[string]
		DeleteRecipe(ctx context.Context, userID, recipeID string) domain.Result[domain.Unit]
		AlternateFavourite(ctx context.Context, userID string, req domain.AlternateFavouriteRequest) domain.Result[bool]
		PostComment(ctx context.Context, userID string, req domain.PostCommentRequest) domain.Result[domain.Unit]
		DeleteComment(ctx context.Context, userID string, req domain.DeleteCommentRequest) domain.Result[domain.Unit]
	}

	recipeService struct {
		store           RecipeStore
		userStore       user.UserStore
		statsRepository stats.StatsRepository
	}
)

func NewRecipeService(store RecipeStore, userStore user.UserStore, statsRepository stats.StatsRepository) RecipeService {
	return &recipeService{
		store:           store,
		userStore:       userStore,
		statsRepository: statsRepository,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context) domain.Result[[]domain.Recipe] {
	return s.store.GetAll(ctx)
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, id string) domain.Result[domain.Recipe] {
	return s.store.GetByID(ctx, id)
}

func (s *recipeService) FilterRecipes(ctx context.Context, req domain.FilterRecipesRequest) domain.Result[[]domain.Recipe] {
	return s.store.Filter(ctx, req)
}

// SaveRecipe resolves the author snapshot first so a stale login fails
// before anything is written.
func (s *recipeService) SaveRecipe(ctx context.Context, userID string, req domain.SaveRecipeRequest) domain.Result[string] {
	current := s.userStore.CurrentUser(ctx, userID)
	if current.IsFailure() {
		return domain.Err[string](current.ErrValue())
	}

	author := domain.Author{
		ID:         current.Value().ID,
		Username:   current.Value().Username,
		PictureURL: current.Value().PictureURL,
	}
	saved := s.store.Save(ctx, req, author)
	if saved.IsFailure() {
		return saved
	}

	// The saved recipe is not patched into either cache; the next read
	// refetches both the list and the author's recipe ids.
	s.store.ClearCache()
	s.userStore.ClearCache()

	_ = s.statsRepository.RecordEvent(ctx, domain.StatsKindInteraction, time.Now())
	return saved
}

func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID string) domain.Result[domain.Unit] {
	existing := s.store.GetByID(ctx, recipeID)
	if existing.IsFailure() {
		return domain.Err[domain.Unit](existing.ErrValue())
	}

	if existing.Value().Author.ID != userID {
		isAdmin := s.userStore.IsAdmin(ctx, userID)
		if isAdmin.IsFailure() {
			return domain.Err[domain.Unit](isAdmin.ErrValue())
		}
		if !isAdmin.Value() {
			return domain.Err[domain.Unit](domain.UnknownRecipeError(domain.MesaageUserNotAllowed))
		}
	}

	deleted := s.store.Delete(ctx, recipeID)
	if deleted.IsFailure() {
		return deleted
	}

	s.store.ClearCache()
	s.userStore.ClearCache()
	return deleted
}

// AlternateFavourite updates the user's favourites list first, then the
// recipe's counter. A counter failure is returned as-is; the favourites
// write is not rolled back.
func (s *recipeService) AlternateFavourite(ctx context.Context, userID string, req domain.AlternateFavouriteRequest) domain.Result[bool] {
	toggled := s.userStore.AlternateFavourite(ctx, userID, req.RecipeID)
	if toggled.IsFailure() {
		return toggled
	}

	isNewFavourite := toggled.Value()
	counted := s.store.UpdateFavouriteCount(ctx, req.RecipeID, isNewFavourite)
	if counted.IsFailure() {
		return domain.Err[bool](counted.ErrValue())
	}

	_ = s.statsRepository.RecordEvent(ctx, domain.StatsKindInteraction, time.Now())
	return domain.Ok(isNewFavourite)
}

func (s *recipeService) PostComment(ctx context.Context, userID string, req domain.PostCommentRequest) domain.Result[domain.Unit] {
	current := s.userStore.CurrentUser(ctx, userID)
	if current.IsFailure() {
		return domain.Err[domain.Unit](current.ErrValue())
	}

	comment := domain.Comment{
		Author: domain.Author{
			ID:         current.Value().ID,
			Username:   current.Value().Username,
			PictureURL: current.Value().PictureURL,
		},
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	posted := s.store.PostComment(ctx, req.RecipeID, comment)
	if posted.IsFailure() {
		return posted
	}

	_ = s.statsRepository.RecordEvent(ctx, domain.StatsKindInteraction, time.Now())
	return posted
}

func (s *recipeService) DeleteComment(ctx context.Context, userID string, req domain.DeleteCommentRequest) domain.Result[domain.Unit] {
	return s.store.DeleteComment(ctx, req.RecipeID, req.CreatedAt, userID)
}
