package recipe

import (
	"context"
	"time"

	"CookShare-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// RecipeRepository is the remote access facade over the document
	// store. It deals in entities and raw errors; domain mapping and
	// caching happen one layer up.
	RecipeRepository interface {
		GetRecipes(ctx context.Context) ([]*entities.Recipe, error)
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		SaveRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, id string) error
		AdjustFavouriteCount(ctx context.Context, id string, delta int) error
		AddComment(ctx context.Context, comment *entities.Comment) error
		RemoveComment(ctx context.Context, recipeID string, createdAt time.Time, authorID string) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) GetRecipes(ctx context.Context) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Comments").
		Order("created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Comments").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) SaveRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	recipeUUID, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeUUID).
			Delete(&entities.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeUUID).
			Delete(&entities.UserFavourite{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", recipeUUID).Delete(&entities.Recipe{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AdjustFavouriteCount moves the counter by delta, clamped at zero.
func (r *recipeRepository) AdjustFavouriteCount(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", id).
		Update("favourite_count", gorm.Expr("GREATEST(favourite_count + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *recipeRepository) AddComment(ctx context.Context, comment *entities.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *recipeRepository) RemoveComment(ctx context.Context, recipeID string, createdAt time.Time, authorID string) error {
	result := r.db.WithContext(ctx).
		Where("recipe_id = ? AND created_at = ? AND user_id = ?", recipeID, createdAt, authorID).
		Delete(&entities.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
