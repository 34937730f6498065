package domain

import "time"

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetUser          = "success get user data"
	MessageSuccessUpdateUser       = "user updated successfully"
	MessageSuccessUpdatePassword   = "password updated successfully"
	MessageSuccessUpdateEmail      = "email updated successfully"
	MessageSuccessDeleteAccount    = "account deleted successfully"
	MessageSuccessLogout           = "logout success"
	MessageSuccessForgotPassword   = "password reset email sent"
	MessageSuccessResetPassword    = "password reset successfully"
	MessageSuccessGetInactiveUsers = "success get inactive users"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetUser          = "failed to get user data"
	MessageFailedUpdateUser       = "failed to update user"
	MessageFailedUpdatePassword   = "failed to update password"
	MessageFailedUpdateEmail      = "failed to update email"
	MessageFailedDeleteAccount    = "failed to delete account"
	MessageFailedForgotPassword   = "failed to send password reset email"
	MessageFailedResetPassword    = "failed to reset password"
	MessageFailedGetInactiveUsers = "failed to get inactive users"
)

type UserErrorKind int

const (
	UserUnknown UserErrorKind = iota
	UsernameInUse
	EmailInUse
	UserNotFound
	WrongPassword
	PasswordTooShort
	InvalidPasswordPattern
	InvalidEmailPattern
	InvalidUsernamePattern
)

// UserError is the closed error set of the user feature.
type UserError struct {
	Kind    UserErrorKind
	Message string
}

func (e UserError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case UsernameInUse:
		return "username already in use"
	case EmailInUse:
		return "email already in use"
	case UserNotFound:
		return "user not found"
	case WrongPassword:
		return "wrong password"
	case PasswordTooShort:
		return "password too short"
	case InvalidPasswordPattern:
		return "password must contain at least one letter and one digit"
	case InvalidEmailPattern:
		return "invalid email address"
	case InvalidUsernamePattern:
		return "invalid username"
	}
	return "unknown user error"
}

func (UserError) domainError() {}

func UnknownUserError(message string) UserError {
	return UserError{Kind: UserUnknown, Message: message}
}

var (
	ErrUsernameInUse          = UserError{Kind: UsernameInUse}
	ErrEmailInUse             = UserError{Kind: EmailInUse}
	ErrUserNotFound           = UserError{Kind: UserNotFound}
	ErrWrongPassword          = UserError{Kind: WrongPassword}
	ErrPasswordTooShort       = UserError{Kind: PasswordTooShort}
	ErrInvalidPasswordPattern = UserError{Kind: InvalidPasswordPattern}
	ErrInvalidEmailPattern    = UserError{Kind: InvalidEmailPattern}
	ErrInvalidUsernamePattern = UserError{Kind: InvalidUsernamePattern}
)

type (
	User struct {
		ID           string    `json:"id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		Bio          string    `json:"bio,omitempty"`
		PictureURL   string    `json:"picture_url,omitempty"`
		Role         string    `json:"role"`
		RecipeIDs    []string  `json:"recipe_ids"`
		FavouriteIDs []string  `json:"favourite_ids"`
		FollowerIDs  []string  `json:"follower_ids"`
		FollowingIDs []string  `json:"following_ids"`
		LastLoginAt  time.Time `json:"last_login_at"`
	}

	RegisterUserRequest struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginUserRequest struct {
		Email      string `json:"email" validate:"required"`
		Password   string `json:"password" validate:"required"`
		RememberMe bool   `json:"remember_me"`
		SessionID  string `json:"session_id"`
	}

	LoginUserResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}

	// Nil pointer fields mean "leave unchanged"; an empty string clears
	// the field.
	UpdateUserRequest struct {
		Username *string `json:"username"`
		Bio      *string `json:"bio"`
		Language *string `json:"language"`
	}

	UpdatePasswordRequest struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required"`
	}

	UpdateEmailRequest struct {
		Password string `json:"password" validate:"required"`
		NewEmail string `json:"new_email" validate:"required"`
	}

	DeleteAccountRequest struct {
		Password string `json:"password" validate:"required"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required"`
	}

	ResetPasswordRequest struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required"`
	}
)
