package entities

import (
	"time"

	"github.com/google/uuid"
)

// Ingredients, Steps and Categories are JSON-encoded string lists; the
// document store keeps them as opaque text columns.
type Recipe struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID `gorm:"index" json:"user_id"`
	Title           string    `json:"title"`
	ImageKey        string    `json:"image_key,omitempty"`
	VideoURL        string    `json:"video_url,omitempty"`
	Ingredients     string    `gorm:"type:text" json:"ingredients"`
	Steps           string    `gorm:"type:text" json:"steps"`
	Categories      string    `gorm:"type:text" json:"categories"`
	FavouriteCount  int       `gorm:"default:0" json:"favourite_count"`
	DurationMinutes int       `json:"duration_minutes"`
	Difficulty      int       `json:"difficulty"` // 0 easy, 1 medium, 2 hard

	// Author snapshot denormalised for display without a join.
	AuthorUsername   string `json:"author_username"`
	AuthorPictureURL string `json:"author_picture_url,omitempty"`

	User     *User     `gorm:"foreignKey:UserID"`
	Comments []Comment `gorm:"foreignKey:RecipeID" json:"comments,omitempty"`
	Timestamp
}

type Comment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID uuid.UUID `gorm:"index" json:"recipe_id"`
	UserID   uuid.UUID `gorm:"index" json:"user_id"`
	Content  string    `gorm:"type:text" json:"content"`

	AuthorUsername   string    `json:"author_username"`
	AuthorPictureURL string    `json:"author_picture_url,omitempty"`
	CreatedAt        time.Time `gorm:"type:timestamp" json:"created_at"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
	User   *User   `gorm:"foreignKey:UserID"`
}
