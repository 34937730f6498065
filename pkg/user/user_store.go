package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"CookShare-Backend/domain"
	"CookShare-Backend/entities"
	"CookShare-Backend/internal/session"
	"CookShare-Backend/internal/utils/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type (
	// UserStore is the cached repository for user data. It keeps a single
	// current-user snapshot, populated on login or on demand with at most
	// one in-flight fetch, and owns the session key-value persistence.
	UserStore interface {
		Create(ctx context.Context, req domain.RegisterUserRequest) domain.Result[domain.User]
		Login(ctx context.Context, req domain.LoginUserRequest) domain.Result[domain.User]
		CurrentUser(ctx context.Context, userID string) domain.Result[domain.User]
		ByID(ctx context.Context, id string) domain.Result[domain.User]
		ByName(ctx context.Context, username string) domain.Result[domain.User]
		ByEmail(ctx context.Context, email string) domain.Result[domain.User]
		UpdateCurrentUser(ctx context.Context, userID string, req domain.UpdateUserRequest) domain.Result[domain.Unit]
		UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) domain.Result[domain.Unit]
		SetPassword(ctx context.Context, userID, newPassword string) domain.Result[domain.Unit]
		UpdateEmail(ctx context.Context, userID, password, newEmail string) domain.Result[domain.Unit]
		AlternateFavourite(ctx context.Context, userID, recipeID string) domain.Result[bool]
		SaveProfilePicture(ctx context.Context, userID string, picture []byte) domain.Result[string]
		DeleteAccount(ctx context.Context, userID, password string) domain.Result[domain.Unit]
		InactiveUsers(ctx context.Context) domain.Result[[]domain.User]
		IsAdmin(ctx context.Context, userID string) domain.Result[bool]
		TryAutoLogin(ctx context.Context, sessionID string) domain.Result[domain.User]
		AlternateKeepSession(ctx context.Context, sessionID string) domain.Result[bool]
		IsSessionKept(ctx context.Context, sessionID string) domain.Result[bool]
		SaveLanguage(ctx context.Context, sessionID, code string) domain.Result[domain.Unit]
		Language(ctx context.Context, sessionID string) domain.Result[string]
		Logout(ctx context.Context, sessionID string) domain.Result[domain.Unit]
		ClearCache()
	}

	userStore struct {
		repository UserRepository
		s3         storage.AwsS3
		sessions   session.Store

		mu     sync.Mutex
		cached *domain.User
		flight singleflight.Group
	}
)

func NewUserStore(repository UserRepository, s3 storage.AwsS3, sessions session.Store) UserStore {
	return &userStore{
		repository: repository,
		s3:         s3,
		sessions:   sessions,
	}
}

func (s *userStore) Create(ctx context.Context, req domain.RegisterUserRequest) domain.Result[domain.User] {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
	}

	record := &entities.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		LastLoginAt:  time.Now(),
	}
	if err := s.repository.CreateUser(ctx, record); err != nil {
		return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
	}

	return domain.Ok(s.toDomain(record, nil, nil))
}

func (s *userStore) Login(ctx context.Context, req domain.LoginUserRequest) domain.Result[domain.User] {
	record, err := s.repository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.User](domain.ErrUserNotFound)
		}
		return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
	}

	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(req.Password)) != nil {
		return domain.Err[domain.User](domain.ErrWrongPassword)
	}

	now := time.Now()
	if err := s.repository.UpdateLastLogin(ctx, record.ID.String(), now); err != nil {
		return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
	}
	record.LastLoginAt = now

	snapshot, err := s.snapshot(ctx, record)
	if err != nil {
		return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
	}

	if req.RememberMe && req.SessionID != "" {
		if err := s.sessions.SaveUserID(ctx, req.SessionID, snapshot.ID); err != nil {
			return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
		}
		if err := s.sessions.SetKeepSession(ctx, req.SessionID, true); err != nil {
			return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
		}
	}

	s.setCache(snapshot)
	return domain.Ok(snapshot)
}

// CurrentUser serves the cached snapshot when it belongs to userID;
// otherwise it fetches once, concurrent callers sharing the flight.
func (s *userStore) CurrentUser(ctx context.Context, userID string) domain.Result[domain.User] {
	s.mu.Lock()
	if s.cached != nil && s.cached.ID == userID {
		cached := *s.cached
		s.mu.Unlock()
		return domain.Ok(cached)
	}
	s.mu.Unlock()

	value, err, _ := s.flight.Do(userID, func() (any, error) {
		record, err := s.repository.GetUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		snapshot, err := s.snapshot(ctx, record)
		if err != nil {
			return nil, err
		}
		s.setCache(snapshot)
		return snapshot, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.User](domain.ErrUserNotFound)
		}
		return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
	}
	return domain.Ok(value.(domain.User))
}

func (s *userStore) ByID(ctx context.Context, id string) domain.Result[domain.User] {
	return s.lookup(ctx, func() (*entities.User, error) {
		return s.repository.GetUserByID(ctx, id)
	})
}

func (s *userStore) ByName(ctx context.Context, username string) domain.Result[domain.User] {
	return s.lookup(ctx, func() (*entities.User, error) {
		return s.repository.GetUserByUsername(ctx, username)
	})
}

func (s *userStore) ByEmail(ctx context.Context, email string) domain.Result[domain.User] {
	return s.lookup(ctx, func() (*entities.User, error) {
		return s.repository.GetUserByEmail(ctx, email)
	})
}

func (s *userStore) lookup(ctx context.Context, fetch func() (*entities.User, error)) domain.Result[domain.User] {
	record, err := fetch()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.User](domain.ErrUserNotFound)
		}
		return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
	}
	snapshot, err := s.snapshot(ctx, record)
	if err != nil {
		return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
	}
	return domain.Ok(snapshot)
}

// UpdateCurrentUser applies only the fields present in the request. A
// failed update leaves the cache untouched; a successful one drops it so
// the next read fetches the authoritative snapshot.
func (s *userStore) UpdateCurrentUser(ctx context.Context, userID string, req domain.UpdateUserRequest) domain.Result[domain.Unit] {
	fields := map[string]any{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if len(fields) == 0 {
		return domain.OkUnit()
	}

	if err := s.repository.UpdateUserFields(ctx, userID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.Unit](domain.ErrUserNotFound)
		}
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}

	s.ClearCache()
	return domain.OkUnit()
}

func (s *userStore) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) domain.Result[domain.Unit] {
	record, err := s.repository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.Unit](domain.ErrUserNotFound)
		}
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}

	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(oldPassword)) != nil {
		return domain.Err[domain.Unit](domain.ErrWrongPassword)
	}

	return s.SetPassword(ctx, userID, newPassword)
}

// SetPassword skips the old-password check; the reset-token flow is the
// only caller besides UpdatePassword.
func (s *userStore) SetPassword(ctx context.Context, userID, newPassword string) domain.Result[domain.Unit] {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}

	if err := s.repository.UpdateUserFields(ctx, userID, map[string]any{"password_hash": string(hash)}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.Unit](domain.ErrUserNotFound)
		}
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}
	return domain.OkUnit()
}

func (s *userStore) UpdateEmail(ctx context.Context, userID, password, newEmail string) domain.Result[domain.Unit] {
	record, err := s.repository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.Unit](domain.ErrUserNotFound)
		}
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}

	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)) != nil {
		return domain.Err[domain.Unit](domain.ErrWrongPassword)
	}

	if _, err := s.repository.GetUserByEmail(ctx, newEmail); err == nil {
		return domain.Err[domain.Unit](domain.ErrEmailInUse)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}

	if err := s.repository.UpdateUserFields(ctx, userID, map[string]any{"email": newEmail}); err != nil {
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}

	s.ClearCache()
	return domain.OkUnit()
}

// AlternateFavourite toggles membership in the user's favourites list and
// re-fetches the authoritative snapshot. The returned flag reports whether
// the recipe became a favourite.
func (s *userStore) AlternateFavourite(ctx context.Context, userID, recipeID string) domain.Result[bool] {
	isFavourite, err := s.repository.IsFavourite(ctx, userID, recipeID)
	if err != nil {
		return domain.Err[bool](domain.UnknownUserError(err.Error()))
	}

	if isFavourite {
		err = s.repository.RemoveFavourite(ctx, userID, recipeID)
	} else {
		err = s.repository.AddFavourite(ctx, userID, recipeID)
	}
	if err != nil {
		return domain.Err[bool](domain.UnknownUserError(err.Error()))
	}

	s.ClearCache()
	if refreshed := s.CurrentUser(ctx, userID); refreshed.IsFailure() {
		return domain.Err[bool](refreshed.ErrValue())
	}
	return domain.Ok(!isFavourite)
}

func (s *userStore) SaveProfilePicture(ctx context.Context, userID string, picture []byte) domain.Result[string] {
	key := fmt.Sprintf("users/%s.jpg", userID)
	if _, err := s.s3.UploadFile(ctx, key, "image/jpeg", picture); err != nil {
		return domain.Err[string](domain.UnknownUserError(err.Error()))
	}

	if err := s.repository.UpdateUserFields(ctx, userID, map[string]any{"picture_key": key}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[string](domain.ErrUserNotFound)
		}
		return domain.Err[string](domain.UnknownUserError(err.Error()))
	}

	// Recipes and comments carry a denormalised author picture; keep it in
	// step with the new upload.
	pictureURL := s.s3.PublicURL(key)
	if err := s.repository.UpdateAuthorPictureURL(ctx, userID, pictureURL); err != nil {
		return domain.Err[string](domain.UnknownUserError(err.Error()))
	}

	s.ClearCache()
	return domain.Ok(pictureURL)
}

func (s *userStore) DeleteAccount(ctx context.Context, userID, password string) domain.Result[domain.Unit] {
	record, err := s.repository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Err[domain.Unit](domain.ErrUserNotFound)
		}
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}

	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)) != nil {
		return domain.Err[domain.Unit](domain.ErrWrongPassword)
	}

	if err := s.repository.DeleteUser(ctx, userID); err != nil {
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}

	// The account is gone either way; the orphaned picture object is best
	// effort cleanup.
	if record.PictureKey != "" {
		_ = s.s3.DeleteFile(ctx, record.PictureKey)
	}

	s.ClearCache()
	return domain.OkUnit()
}

func (s *userStore) InactiveUsers(ctx context.Context) domain.Result[[]domain.User] {
	cutoff := time.Now().AddDate(0, 0, -domain.InactiveAfterDays)
	records, err := s.repository.GetInactiveUsers(ctx, cutoff)
	if err != nil {
		return domain.Err[[]domain.User](domain.UnknownUserError(err.Error()))
	}

	users := make([]domain.User, 0, len(records))
	for _, record := range records {
		users = append(users, s.toDomain(record, nil, nil))
	}
	return domain.Ok(users)
}

func (s *userStore) IsAdmin(ctx context.Context, userID string) domain.Result[bool] {
	current := s.CurrentUser(ctx, userID)
	if current.IsFailure() {
		return domain.Err[bool](current.ErrValue())
	}
	return domain.Ok(current.Value().Role == domain.RoleAdmin)
}

// TryAutoLogin restores the user from the persisted session id, honouring
// the remember-session flag.
func (s *userStore) TryAutoLogin(ctx context.Context, sessionID string) domain.Result[domain.User] {
	kept, err := s.sessions.IsSessionKept(ctx, sessionID)
	if err != nil {
		return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
	}
	if !kept {
		return domain.Err[domain.User](domain.ErrUserNotFound)
	}

	userID, err := s.sessions.SavedUserID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return domain.Err[domain.User](domain.ErrUserNotFound)
		}
		return domain.Err[domain.User](domain.UnknownUserError(err.Error()))
	}

	return s.CurrentUser(ctx, userID)
}

func (s *userStore) AlternateKeepSession(ctx context.Context, sessionID string) domain.Result[bool] {
	kept, err := s.sessions.IsSessionKept(ctx, sessionID)
	if err != nil {
		return domain.Err[bool](domain.UnknownUserError(err.Error()))
	}
	if err := s.sessions.SetKeepSession(ctx, sessionID, !kept); err != nil {
		return domain.Err[bool](domain.UnknownUserError(err.Error()))
	}
	return domain.Ok(!kept)
}

func (s *userStore) IsSessionKept(ctx context.Context, sessionID string) domain.Result[bool] {
	kept, err := s.sessions.IsSessionKept(ctx, sessionID)
	if err != nil {
		return domain.Err[bool](domain.UnknownUserError(err.Error()))
	}
	return domain.Ok(kept)
}

func (s *userStore) SaveLanguage(ctx context.Context, sessionID, code string) domain.Result[domain.Unit] {
	if err := s.sessions.SaveLanguage(ctx, sessionID, code); err != nil {
		return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
	}
	return domain.OkUnit()
}

// Language reads the session's saved language code; a session without one
// yields the empty code and callers fall back to English.
func (s *userStore) Language(ctx context.Context, sessionID string) domain.Result[string] {
	code, err := s.sessions.Language(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return domain.Ok("")
		}
		return domain.Err[string](domain.UnknownUserError(err.Error()))
	}
	return domain.Ok(code)
}

func (s *userStore) Logout(ctx context.Context, sessionID string) domain.Result[domain.Unit] {
	s.ClearCache()
	if sessionID != "" {
		if err := s.sessions.Clear(ctx, sessionID); err != nil {
			return domain.Err[domain.Unit](domain.UnknownUserError(err.Error()))
		}
	}
	return domain.OkUnit()
}

func (s *userStore) ClearCache() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *userStore) setCache(snapshot domain.User) {
	s.mu.Lock()
	s.cached = &snapshot
	s.mu.Unlock()
}

func (s *userStore) snapshot(ctx context.Context, record *entities.User) (domain.User, error) {
	followers, err := s.repository.GetFollowerIDs(ctx, record.ID.String())
	if err != nil {
		return domain.User{}, err
	}
	following, err := s.repository.GetFollowingIDs(ctx, record.ID.String())
	if err != nil {
		return domain.User{}, err
	}
	return s.toDomain(record, followers, following), nil
}

func (s *userStore) toDomain(record *entities.User, followers, following []string) domain.User {
	recipeIDs := make([]string, 0, len(record.Recipes))
	for _, recipe := range record.Recipes {
		recipeIDs = append(recipeIDs, recipe.ID.String())
	}
	favouriteIDs := make([]string, 0, len(record.Favourites))
	for _, favourite := range record.Favourites {
		favouriteIDs = append(favouriteIDs, favourite.RecipeID.String())
	}
	if followers == nil {
		followers = []string{}
	}
	if following == nil {
		following = []string{}
	}

	return domain.User{
		ID:           record.ID.String(),
		Username:     record.Username,
		Email:        record.Email,
		Bio:          record.Bio,
		PictureURL:   s.s3.PublicURL(record.PictureKey),
		Role:         record.Role,
		RecipeIDs:    recipeIDs,
		FavouriteIDs: favouriteIDs,
		FollowerIDs:  followers,
		FollowingIDs: following,
		LastLoginAt:  record.LastLoginAt,
	}
}
