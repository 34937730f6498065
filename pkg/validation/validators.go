package validation

import (
	"regexp"

	"CookShare-Backend/domain"
)

// Single authoritative limits for credential validation.
const (
	PasswordMinLength = 6
	UsernameMinLength = 4
	UsernameMaxLength = 16
)

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// Email checks the address format only; uniqueness is the backend's job.
func Email(address string) domain.Result[string] {
	if !emailPattern.MatchString(address) {
		return domain.Err[string](domain.ErrInvalidEmailPattern)
	}
	return domain.Ok(address)
}

// Password requires the minimum length first, then at least one letter and
// one digit. The length check short-circuits the pattern check.
func Password(password string) domain.Result[string] {
	if len(password) < PasswordMinLength {
		return domain.Err[string](domain.ErrPasswordTooShort)
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return domain.Err[string](domain.ErrInvalidPasswordPattern)
	}
	return domain.Ok(password)
}

// Username enforces the inclusive length bounds.
func Username(username string) domain.Result[string] {
	if len(username) < UsernameMinLength || len(username) > UsernameMaxLength {
		return domain.Err[string](domain.ErrInvalidUsernamePattern)
	}
	return domain.Ok(username)
}
