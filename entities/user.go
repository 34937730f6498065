package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Username     string    `gorm:"uniqueIndex" json:"username"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio,omitempty"`
	PictureKey   string    `json:"picture_key,omitempty"`
	Role         string    `gorm:"default:user" json:"role"`
	LastLoginAt  time.Time `gorm:"type:timestamp" json:"last_login_at"`

	Recipes    []Recipe        `gorm:"foreignKey:UserID" json:"recipes,omitempty"`
	Favourites []UserFavourite `gorm:"foreignKey:UserID" json:"favourites,omitempty"`
	Timestamp
}

type UserFavourite struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID `gorm:"index" json:"user_id"`
	RecipeID uuid.UUID `gorm:"index" json:"recipe_id"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
	Timestamp
}

// UserFollow records FollowerID following FollowedID.
type UserFollow struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	FollowerID uuid.UUID `gorm:"index" json:"follower_id"`
	FollowedID uuid.UUID `gorm:"index" json:"followed_id"`

	Follower *User `gorm:"foreignKey:FollowerID"`
	Followed *User `gorm:"foreignKey:FollowedID"`
	Timestamp
}
