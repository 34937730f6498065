package user

import (
	"context"
	"time"

	"CookShare-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// UserRepository is the remote access facade for the user collection.
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		UpdateUserFields(ctx context.Context, id string, fields map[string]any) error
		UpdateAuthorPictureURL(ctx context.Context, userID, pictureURL string) error
		UpdateLastLogin(ctx context.Context, id string, at time.Time) error
		AddFavourite(ctx context.Context, userID, recipeID string) error
		RemoveFavourite(ctx context.Context, userID, recipeID string) error
		IsFavourite(ctx context.Context, userID, recipeID string) (bool, error)
		GetFollowerIDs(ctx context.Context, userID string) ([]string, error)
		GetFollowingIDs(ctx context.Context, userID string) ([]string, error)
		DeleteUser(ctx context.Context, id string) error
		GetInactiveUsers(ctx context.Context, lastLoginBefore time.Time) ([]*entities.User, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Preload("Recipes").
		Preload("Favourites").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Preload("Recipes").
		Preload("Favourites").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Preload("Recipes").
		Preload("Favourites").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserFields patches the user row. A username change also rewrites the
// denormalised author columns on recipes and comments in the same
// transaction, so refetches never see the old name.
func (r *userRepository) UpdateUserFields(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.User{}).
			Where("id = ?", id).
			Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		username, ok := fields["username"]
		if !ok {
			return nil
		}
		if err := tx.Model(&entities.Recipe{}).
			Where("user_id = ?", id).
			Update("author_username", username).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Comment{}).
			Where("user_id = ?", id).
			Update("author_username", username).Error
	})
}

// UpdateAuthorPictureURL rewrites the denormalised author picture on recipes
// and comments after a profile picture upload.
func (r *userRepository) UpdateAuthorPictureURL(ctx context.Context, userID, pictureURL string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Recipe{}).
			Where("user_id = ?", userID).
			Update("author_picture_url", pictureURL).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Comment{}).
			Where("user_id = ?", userID).
			Update("author_picture_url", pictureURL).Error
	})
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

func (r *userRepository) AddFavourite(ctx context.Context, userID, recipeID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return err
	}

	favourite := entities.UserFavourite{
		ID:       uuid.New(),
		UserID:   userUUID,
		RecipeID: recipeUUID,
	}
	return r.db.WithContext(ctx).Create(&favourite).Error
}

func (r *userRepository) RemoveFavourite(ctx context.Context, userID, recipeID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.UserFavourite{}).Error
}

func (r *userRepository) IsFavourite(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.UserFavourite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) GetFollowerIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&entities.UserFollow{}).
		Where("followed_id = ?", userID).
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&entities.UserFollow{}).
		Where("follower_id = ?", userID).
		Pluck("followed_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteUser removes the account and its join rows; recipes and comments
// keep their denormalised author snapshots (soft reference).
func (r *userRepository) DeleteUser(ctx context.Context, id string) error {
	userUUID, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userUUID).
			Delete(&entities.UserFavourite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", userUUID, userUUID).
			Delete(&entities.UserFollow{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", userUUID).Delete(&entities.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *userRepository) GetInactiveUsers(ctx context.Context, lastLoginBefore time.Time) ([]*entities.User, error) {
	var users []*entities.User
	if err := r.db.WithContext(ctx).
		Where("last_login_at < ?", lastLoginBefore).
		Order("last_login_at asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
