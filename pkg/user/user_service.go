package user

import (
	"context"
	"fmt"
	"time"

	"CookShare-Backend/domain"
	"CookShare-Backend/internal/utils"
	"CookShare-Backend/internal/utils/mailing"
	"CookShare-Backend/pkg/jwt"
	"CookShare-Backend/pkg/stats"
	"CookShare-Backend/pkg/validation"
)

const resetTokenLifetime = 30 * time.Minute

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterUserRequest) domain.Result[domain.User]
		Login(ctx context.Context, req domain.LoginUserRequest) domain.Result[domain.LoginUserResponse]
		Me(ctx context.Context, userID string) domain.Result[domain.User]
		GetUserByID(ctx context.Context, id string) domain.Result[domain.User]
		GetUserByName(ctx context.Context, username string) domain.Result[domain.User]
		GetUserByEmail(ctx context.Context, email string) domain.Result[domain.User]
		UpdateCurrentUser(ctx context.Context, userID, sessionID string, req domain.UpdateUserRequest) domain.Result[domain.Unit]
		UpdatePassword(ctx context.Context, userID string, req domain.UpdatePasswordRequest) domain.Result[domain.Unit]
		UpdateEmail(ctx context.Context, userID string, req domain.UpdateEmailRequest) domain.Result[domain.Unit]
		SaveProfilePicture(ctx context.Context, userID string, picture []byte) domain.Result[string]
		DeleteAccount(ctx context.Context, userID string, req domain.DeleteAccountRequest) domain.Result[domain.Unit]
		InactiveUsers(ctx context.Context, callerID string) domain.Result[[]domain.User]
		TryAutoLogin(ctx context.Context, sessionID string) domain.Result[domain.LoginUserResponse]
		AlternateKeepSession(ctx context.Context, sessionID string) domain.Result[bool]
		IsSessionKept(ctx context.Context, sessionID string) domain.Result[bool]
		Language(ctx context.Context, sessionID string) domain.Result[string]
		Logout(ctx context.Context, sessionID string) domain.Result[domain.Unit]
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) domain.Result[domain.Unit]
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) domain.Result[domain.Unit]
	}

	// RecipeCacheInvalidator lets the user service drop the recipe cache
	// when denormalised author snapshots change, without importing the
	// recipe package.
	RecipeCacheInvalidator interface {
		ClearCache()
	}

	userService struct {
		store           UserStore
		recipeCache     RecipeCacheInvalidator
		jwtService      jwt.JWTService
		statsRepository stats.StatsRepository
	}
)

func NewUserService(store UserStore, recipeCache RecipeCacheInvalidator, jwtService jwt.JWTService, statsRepository stats.StatsRepository) UserService {
	return &userService{
		store:           store,
		recipeCache:     recipeCache,
		jwtService:      jwtService,
		statsRepository: statsRepository,
	}
}

func isUserNotFound(err domain.DomainError) bool {
	ue, ok := err.(domain.UserError)
	return ok && ue.Kind == domain.UserNotFound
}

// Register validates username, email and password in that order, stopping
// at the first failure, then checks uniqueness in the same order before
// creating the account.
func (s *userService) Register(ctx context.Context, req domain.RegisterUserRequest) domain.Result[domain.User] {
	if result := validation.Username(req.Username); result.IsFailure() {
		return domain.Err[domain.User](result.ErrValue())
	}
	if result := validation.Email(req.Email); result.IsFailure() {
		return domain.Err[domain.User](result.ErrValue())
	}
	if result := validation.Password(req.Password); result.IsFailure() {
		return domain.Err[domain.User](result.ErrValue())
	}

	byName := s.store.ByName(ctx, req.Username)
	if byName.IsSuccess() {
		return domain.Err[domain.User](domain.ErrUsernameInUse)
	}
	if !isUserNotFound(byName.ErrValue()) {
		return domain.Err[domain.User](byName.ErrValue())
	}

	byEmail := s.store.ByEmail(ctx, req.Email)
	if byEmail.IsSuccess() {
		return domain.Err[domain.User](domain.ErrEmailInUse)
	}
	if !isUserNotFound(byEmail.ErrValue()) {
		return domain.Err[domain.User](byEmail.ErrValue())
	}

	return s.store.Create(ctx, req)
}

func (s *userService) Login(ctx context.Context, req domain.LoginUserRequest) domain.Result[domain.LoginUserResponse] {
	result := s.store.Login(ctx, req)
	if result.IsFailure() {
		return domain.Err[domain.LoginUserResponse](result.ErrValue())
	}

	loggedIn := result.Value()
	token := s.jwtService.GenerateTokenUser(loggedIn.ID, loggedIn.Role, req.RememberMe)

	// Best effort, a lost event never fails the login.
	_ = s.statsRepository.RecordEvent(ctx, domain.StatsKindLogin, time.Now())

	return domain.Ok(domain.LoginUserResponse{Token: token, User: loggedIn})
}

func (s *userService) Me(ctx context.Context, userID string) domain.Result[domain.User] {
	return s.store.CurrentUser(ctx, userID)
}

func (s *userService) GetUserByID(ctx context.Context, id string) domain.Result[domain.User] {
	return s.store.ByID(ctx, id)
}

func (s *userService) GetUserByName(ctx context.Context, username string) domain.Result[domain.User] {
	return s.store.ByName(ctx, username)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) domain.Result[domain.User] {
	return s.store.ByEmail(ctx, email)
}

// UpdateCurrentUser validates a new username when one is supplied (nil
// means unchanged) and drops the recipe cache on success because author
// snapshots are denormalised into recipe records.
func (s *userService) UpdateCurrentUser(ctx context.Context, userID, sessionID string, req domain.UpdateUserRequest) domain.Result[domain.Unit] {
	if req.Username != nil {
		if result := validation.Username(*req.Username); result.IsFailure() {
			return domain.Err[domain.Unit](result.ErrValue())
		}
		if byName := s.store.ByName(ctx, *req.Username); byName.IsSuccess() && byName.Value().ID != userID {
			return domain.Err[domain.Unit](domain.ErrUsernameInUse)
		}
	}

	result := s.store.UpdateCurrentUser(ctx, userID, req)
	if result.IsFailure() {
		return result
	}

	if req.Language != nil && sessionID != "" {
		if saved := s.store.SaveLanguage(ctx, sessionID, *req.Language); saved.IsFailure() {
			return saved
		}
	}

	s.recipeCache.ClearCache()
	return domain.OkUnit()
}

func (s *userService) UpdatePassword(ctx context.Context, userID string, req domain.UpdatePasswordRequest) domain.Result[domain.Unit] {
	if result := validation.Password(req.NewPassword); result.IsFailure() {
		return domain.Err[domain.Unit](result.ErrValue())
	}
	return s.store.UpdatePassword(ctx, userID, req.OldPassword, req.NewPassword)
}

func (s *userService) UpdateEmail(ctx context.Context, userID string, req domain.UpdateEmailRequest) domain.Result[domain.Unit] {
	if result := validation.Email(req.NewEmail); result.IsFailure() {
		return domain.Err[domain.Unit](result.ErrValue())
	}
	return s.store.UpdateEmail(ctx, userID, req.Password, req.NewEmail)
}

func (s *userService) SaveProfilePicture(ctx context.Context, userID string, picture []byte) domain.Result[string] {
	result := s.store.SaveProfilePicture(ctx, userID, picture)
	if result.IsSuccess() {
		s.recipeCache.ClearCache()
	}
	return result
}

func (s *userService) DeleteAccount(ctx context.Context, userID string, req domain.DeleteAccountRequest) domain.Result[domain.Unit] {
	return s.store.DeleteAccount(ctx, userID, req.Password)
}

func (s *userService) InactiveUsers(ctx context.Context, callerID string) domain.Result[[]domain.User] {
	isAdmin := s.store.IsAdmin(ctx, callerID)
	if isAdmin.IsFailure() {
		return domain.Err[[]domain.User](isAdmin.ErrValue())
	}
	if !isAdmin.Value() {
		return domain.Err[[]domain.User](domain.UnknownUserError(domain.MesaageUserNotAllowed))
	}
	return s.store.InactiveUsers(ctx)
}

func (s *userService) TryAutoLogin(ctx context.Context, sessionID string) domain.Result[domain.LoginUserResponse] {
	result := s.store.TryAutoLogin(ctx, sessionID)
	if result.IsFailure() {
		return domain.Err[domain.LoginUserResponse](result.ErrValue())
	}

	restored := result.Value()
	token := s.jwtService.GenerateTokenUser(restored.ID, restored.Role, true)

	_ = s.statsRepository.RecordEvent(ctx, domain.StatsKindLogin, time.Now())

	return domain.Ok(domain.LoginUserResponse{Token: token, User: restored})
}

func (s *userService) AlternateKeepSession(ctx context.Context, sessionID string) domain.Result[bool] {
	return s.store.AlternateKeepSession(ctx, sessionID)
}

func (s *userService) IsSessionKept(ctx context.Context, sessionID string) domain.Result[bool] {
	return s.store.IsSessionKept(ctx, sessionID)
}

func (s *userService) Language(ctx context.Context, sessionID string) domain.Result[string] {
	return s.store.Language(ctx, sessionID)
}

func (s *userService) Logout(ctx context.Context, sessionID string) domain.Result[domain.Unit] {
	return s.store.Logout(ctx, sessionID)
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) domain.Result[domain.Unit] {
	account := s.store.ByEmail(ctx, req.Email)
	if account.IsFailure() {
		return domain.Err[domain.Unit](account.ErrValue())
	}

	token, err := s.jwtService.GenerateTokenResetPassword(
		map[string]any{"user_id": account.Value().ID},
		resetTokenLifetime,
	)
	if err != nil {
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", utils.GetConfig("APP_URL"), token)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Click <a href=%q>here</a> to reset your password. The link expires in 30 minutes.</p>",
		account.Value().Username,
		resetURL,
	)
	if err := mailing.SendMail(req.Email, "Reset your password", body); err != nil {
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}
	return domain.OkUnit()
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) domain.Result[domain.Unit] {
	claims, err := s.jwtService.ValidateTokenResetPassword(req.Token)
	if err != nil {
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return domain.Err[domain.Unit](domain.UnknownUserError(domain.ErrTokenInvalid.Error()))
	}

	if result := validation.Password(req.NewPassword); result.IsFailure() {
		return domain.Err[domain.Unit](result.ErrValue())
	}
	return s.store.SetPassword(ctx, userID, req.NewPassword)
}
