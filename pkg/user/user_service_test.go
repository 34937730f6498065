package user

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CookShare-Backend/domain"
)

// stubUserStore lets each test wire only the calls it expects; everything
// else answers not-found.
type stubUserStore struct {
	UserStore

	byName  func(username string) domain.Result[domain.User]
	byEmail func(email string) domain.Result[domain.User]
	create  func(req domain.RegisterUserRequest) domain.Result[domain.User]
	login   func(req domain.LoginUserRequest) domain.Result[domain.User]
	update  func(userID string, req domain.UpdateUserRequest) domain.Result[domain.Unit]
	setPass func(userID, newPassword string) domain.Result[domain.Unit]
}

func (s *stubUserStore) ByName(ctx context.Context, username string) domain.Result[domain.User] {
	if s.byName != nil {
		return s.byName(username)
	}
	return domain.Err[domain.User](domain.ErrUserNotFound)
}

func (s *stubUserStore) ByEmail(ctx context.Context, email string) domain.Result[domain.User] {
	if s.byEmail != nil {
		return s.byEmail(email)
	}
	return domain.Err[domain.User](domain.ErrUserNotFound)
}

func (s *stubUserStore) Create(ctx context.Context, req domain.RegisterUserRequest) domain.Result[domain.User] {
	if s.create != nil {
		return s.create(req)
	}
	return domain.Err[domain.User](domain.UnknownUserError("unexpected Create"))
}

func (s *stubUserStore) Login(ctx context.Context, req domain.LoginUserRequest) domain.Result[domain.User] {
	if s.login != nil {
		return s.login(req)
	}
	return domain.Err[domain.User](domain.ErrUserNotFound)
}

func (s *stubUserStore) UpdateCurrentUser(ctx context.Context, userID string, req domain.UpdateUserRequest) domain.Result[domain.Unit] {
	if s.update != nil {
		return s.update(userID, req)
	}
	return domain.OkUnit()
}

func (s *stubUserStore) SaveLanguage(ctx context.Context, sessionID, code string) domain.Result[domain.Unit] {
	return domain.OkUnit()
}

func (s *stubUserStore) SetPassword(ctx context.Context, userID, newPassword string) domain.Result[domain.Unit] {
	if s.setPass != nil {
		return s.setPass(userID, newPassword)
	}
	return domain.OkUnit()
}

type stubJWT struct {
	resetClaims jwt.MapClaims
	resetErr    error
}

func (s *stubJWT) GenerateTokenUser(userID, role string, rememberMe bool) string {
	return "token-" + userID
}

func (s *stubJWT) ValidateTokenUser(token string) (*jwt.Token, error) { return nil, nil }

func (s *stubJWT) GetUserIDByToken(token string) (string, string, error) { return "", "", nil }

func (s *stubJWT) GenerateTokenResetPassword(data map[string]any, duration time.Duration) (string, error) {
	return "reset-token", nil
}

func (s *stubJWT) ValidateTokenResetPassword(token string) (jwt.MapClaims, error) {
	return s.resetClaims, s.resetErr
}

type recordingStats struct {
	kinds []string
}

func (r *recordingStats) RecordEvent(ctx context.Context, kind string, occurredAt time.Time) error {
	r.kinds = append(r.kinds, kind)
	return nil
}

func (r *recordingStats) EventsByKind(ctx context.Context, kind string) ([]time.Time, error) {
	return nil, nil
}

type recordingCache struct {
	cleared int
}

func (r *recordingCache) ClearCache() { r.cleared++ }

func newTestUserService(store UserStore) (UserService, *recordingCache, *recordingStats) {
	cache := &recordingCache{}
	statsRepo := &recordingStats{}
	return NewUserService(store, cache, &stubJWT{}, statsRepo), cache, statsRepo
}

func TestUserService_Register_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.RegisterUserRequest
		wantErr domain.DomainError
	}{
		{
			name:    "bad username first",
			req:     domain.RegisterUserRequest{Username: "ab", Email: "bad", Password: "x"},
			wantErr: domain.ErrInvalidUsernamePattern,
		},
		{
			name:    "bad email second",
			req:     domain.RegisterUserRequest{Username: "mario", Email: "bad", Password: "x"},
			wantErr: domain.ErrInvalidEmailPattern,
		},
		{
			name:    "bad password third",
			req:     domain.RegisterUserRequest{Username: "mario", Email: "mario@example.com", Password: "abc12"},
			wantErr: domain.ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storeCalled := false
			store := &stubUserStore{
				byName: func(string) domain.Result[domain.User] {
					storeCalled = true
					return domain.Err[domain.User](domain.ErrUserNotFound)
				},
			}
			service, _, _ := newTestUserService(store)

			result := service.Register(context.Background(), tt.req)
			require.True(t, result.IsFailure())
			assert.Equal(t, tt.wantErr, result.ErrValue())
			assert.False(t, storeCalled, "validation failures must not reach the store")
		})
	}
}

func TestUserService_Register_UsernameInUseShortCircuits(t *testing.T) {
	emailChecked := false
	store := &stubUserStore{
		byName: func(string) domain.Result[domain.User] {
			return domain.Ok(domain.User{ID: "existing"})
		},
		byEmail: func(string) domain.Result[domain.User] {
			emailChecked = true
			return domain.Err[domain.User](domain.ErrUserNotFound)
		},
	}
	service, _, _ := newTestUserService(store)

	result := service.Register(context.Background(), domain.RegisterUserRequest{
		Username: "mario",
		Email:    "mario@example.com",
		Password: "abc123",
	})

	require.True(t, result.IsFailure())
	assert.Equal(t, domain.ErrUsernameInUse, result.ErrValue())
	assert.False(t, emailChecked, "username conflict must stop before the email check")
}

func TestUserService_Register_Success(t *testing.T) {
	store := &stubUserStore{
		create: func(req domain.RegisterUserRequest) domain.Result[domain.User] {
			return domain.Ok(domain.User{ID: "new-id", Username: req.Username})
		},
	}
	service, _, _ := newTestUserService(store)

	result := service.Register(context.Background(), domain.RegisterUserRequest{
		Username: "mario",
		Email:    "mario@example.com",
		Password: "abc123",
	})

	require.True(t, result.IsSuccess())
	assert.Equal(t, "mario", result.Value().Username)
}

func TestUserService_Login_IssuesTokenAndRecordsEvent(t *testing.T) {
	store := &stubUserStore{
		login: func(req domain.LoginUserRequest) domain.Result[domain.User] {
			return domain.Ok(domain.User{ID: "uid-1", Role: domain.RoleUser})
		},
	}
	service, _, statsRepo := newTestUserService(store)

	result := service.Login(context.Background(), domain.LoginUserRequest{
		Email:    "mario@example.com",
		Password: "abc123",
	})

	require.True(t, result.IsSuccess())
	assert.Equal(t, "token-uid-1", result.Value().Token)
	assert.Equal(t, []string{domain.StatsKindLogin}, statsRepo.kinds)
}

func TestUserService_Login_FailureRecordsNothing(t *testing.T) {
	service, _, statsRepo := newTestUserService(&stubUserStore{})

	result := service.Login(context.Background(), domain.LoginUserRequest{
		Email:    "nobody@example.com",
		Password: "abc123",
	})

	require.True(t, result.IsFailure())
	assert.Empty(t, statsRepo.kinds)
}

func TestUserService_UpdateCurrentUser(t *testing.T) {
	badName := "ab"
	goodName := "mario2"
	updated := false
	store := &stubUserStore{
		update: func(userID string, req domain.UpdateUserRequest) domain.Result[domain.Unit] {
			updated = true
			return domain.OkUnit()
		},
	}
	service, cache, _ := newTestUserService(store)
	ctx := context.Background()

	invalid := service.UpdateCurrentUser(ctx, "uid-1", "", domain.UpdateUserRequest{Username: &badName})
	require.True(t, invalid.IsFailure())
	assert.Equal(t, domain.ErrInvalidUsernamePattern, invalid.ErrValue())
	assert.False(t, updated)
	assert.Zero(t, cache.cleared)

	valid := service.UpdateCurrentUser(ctx, "uid-1", "", domain.UpdateUserRequest{Username: &goodName})
	require.True(t, valid.IsSuccess())
	assert.True(t, updated)
	assert.Equal(t, 1, cache.cleared, "author rename must drop the recipe cache")
}

func TestUserService_ResetPassword(t *testing.T) {
	var setTo string
	store := &stubUserStore{
		setPass: func(userID, newPassword string) domain.Result[domain.Unit] {
			setTo = userID + ":" + newPassword
			return domain.OkUnit()
		},
	}
	cache := &recordingCache{}
	statsRepo := &recordingStats{}
	jwtStub := &stubJWT{resetClaims: jwt.MapClaims{"user_id": "uid-1"}}
	service := NewUserService(store, cache, jwtStub, statsRepo)
	ctx := context.Background()

	weak := service.ResetPassword(ctx, domain.ResetPasswordRequest{Token: "reset-token", NewPassword: "abc12"})
	require.True(t, weak.IsFailure())
	assert.Equal(t, domain.ErrPasswordTooShort, weak.ErrValue())

	ok := service.ResetPassword(ctx, domain.ResetPasswordRequest{Token: "reset-token", NewPassword: "fresh42"})
	require.True(t, ok.IsSuccess())
	assert.Equal(t, "uid-1:fresh42", setTo)

	jwtStub.resetClaims = nil
	jwtStub.resetErr = domain.ErrTokenExpired
	expired := service.ResetPassword(ctx, domain.ResetPasswordRequest{Token: "old", NewPassword: "fresh42"})
	require.True(t, expired.IsFailure())
}
