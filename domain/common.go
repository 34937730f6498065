package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Days without a login after which a user counts as inactive.
const InactiveAfterDays = 30

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MesaageUserNotAllowed       = "user not allowed"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// Author is the user snapshot denormalised into recipes and comments.
type Author struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	PictureURL string `json:"picture_url,omitempty"`
}

// Comment is identified by recipe id + creation timestamp + author id,
// there is no separate comment id surface.
type Comment struct {
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
