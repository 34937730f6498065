package handlers

import (
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"CookShare-Backend/domain"
	"CookShare-Backend/internal/api/presenters"
	"CookShare-Backend/pkg/user"
)

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		GetUserByName(c *fiber.Ctx) error
		UpdateUser(c *fiber.Ctx) error
		UpdatePassword(c *fiber.Ctx) error
		UpdateEmail(c *fiber.Ctx) error
		UploadProfilePicture(c *fiber.Ctx) error
		DeleteAccount(c *fiber.Ctx) error
		GetInactiveUsers(c *fiber.Ctx) error
		TryAutoLogin(c *fiber.Ctx) error
		AlternateKeepSession(c *fiber.Ctx) error
		IsSessionKept(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
		ForgotPassword(c *fiber.Ctx) error
		ResetPassword(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
		validator   *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterUserRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegister, err)
	}

	return domain.Fold(h.userService.Register(c.Context(), *req),
		func(created domain.User) error {
			return presenters.SuccessResponse(c, created, fiber.StatusCreated, domain.MessageSuccessRegister)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedRegister, err)
		},
	)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginUserRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, err)
	}

	return domain.Fold(h.userService.Login(c.Context(), *req),
		func(res domain.LoginUserResponse) error {
			return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedLogin, err)
		},
	)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	return domain.Fold(h.userService.Me(c.Context(), userID),
		func(me domain.User) error {
			return presenters.SuccessResponse(c, me, fiber.StatusOK, domain.MessageSuccessGetUser)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedGetUser, err)
		},
	)
}

func (h *userHandler) GetUserByName(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetUser, domain.ErrUserNotFound)
	}

	return domain.Fold(h.userService.GetUserByName(c.Context(), username),
		func(found domain.User) error {
			return presenters.SuccessResponse(c, found, fiber.StatusOK, domain.MessageSuccessGetUser)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedGetUser, err)
		},
	)
}

func (h *userHandler) UpdateUser(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateUserRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	return domain.Fold(h.userService.UpdateCurrentUser(c.Context(), userID, sessionID(c), *req),
		func(domain.Unit) error {
			return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateUser)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedUpdateUser, err)
		},
	)
}

func (h *userHandler) UpdatePassword(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdatePasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdatePassword, err)
	}

	return domain.Fold(h.userService.UpdatePassword(c.Context(), userID, *req),
		func(domain.Unit) error {
			return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdatePassword)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedUpdatePassword, err)
		},
	)
}

func (h *userHandler) UpdateEmail(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateEmailRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateEmail, err)
	}

	return domain.Fold(h.userService.UpdateEmail(c.Context(), userID, *req),
		func(domain.Unit) error {
			return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateEmail)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedUpdateEmail, err)
		},
	)
}

func (h *userHandler) UploadProfilePicture(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	file, err := c.FormFile("picture")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	opened, err := file.Open()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	defer opened.Close()

	picture, err := io.ReadAll(opened)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	return domain.Fold(h.userService.SaveProfilePicture(c.Context(), userID, picture),
		func(url string) error {
			return presenters.SuccessResponse(c, fiber.Map{"picture_url": url}, fiber.StatusOK, domain.MessageSuccessUpdateUser)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedUpdateUser, err)
		},
	)
}

func (h *userHandler) DeleteAccount(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.DeleteAccountRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteAccount, err)
	}

	return domain.Fold(h.userService.DeleteAccount(c.Context(), userID, *req),
		func(domain.Unit) error {
			return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteAccount)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedDeleteAccount, err)
		},
	)
}

func (h *userHandler) GetInactiveUsers(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	return domain.Fold(h.userService.InactiveUsers(c.Context(), userID),
		func(inactive []domain.User) error {
			return presenters.SuccessResponse(c, inactive, fiber.StatusOK, domain.MessageSuccessGetInactiveUsers)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedGetInactiveUsers, err)
		},
	)
}

func (h *userHandler) TryAutoLogin(c *fiber.Ctx) error {
	sid := sessionID(c)
	if sid == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, domain.ErrUserNotFound)
	}

	return domain.Fold(h.userService.TryAutoLogin(c.Context(), sid),
		func(res domain.LoginUserResponse) error {
			return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedLogin, err)
		},
	)
}

func (h *userHandler) AlternateKeepSession(c *fiber.Ctx) error {
	sid := sessionID(c)
	if sid == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, domain.ErrUserNotFound)
	}

	return domain.Fold(h.userService.AlternateKeepSession(c.Context(), sid),
		func(kept bool) error {
			return presenters.SuccessResponse(c, fiber.Map{"keep_session": kept}, fiber.StatusOK, domain.MessageSuccessUpdateUser)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedProcessRequest, err)
		},
	)
}

func (h *userHandler) IsSessionKept(c *fiber.Ctx) error {
	sid := sessionID(c)
	if sid == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, domain.ErrUserNotFound)
	}

	return domain.Fold(h.userService.IsSessionKept(c.Context(), sid),
		func(kept bool) error {
			return presenters.SuccessResponse(c, fiber.Map{"keep_session": kept}, fiber.StatusOK, domain.MessageSuccessGetUser)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedProcessRequest, err)
		},
	)
}

func (h *userHandler) Logout(c *fiber.Ctx) error {
	return domain.Fold(h.userService.Logout(c.Context(), sessionID(c)),
		func(domain.Unit) error {
			return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessLogout)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedProcessRequest, err)
		},
	)
}

func (h *userHandler) ForgotPassword(c *fiber.Ctx) error {
	req := new(domain.ForgotPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedForgotPassword, err)
	}

	return domain.Fold(h.userService.ForgotPassword(c.Context(), *req),
		func(domain.Unit) error {
			return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessForgotPassword)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedForgotPassword, err)
		},
	)
}

func (h *userHandler) ResetPassword(c *fiber.Ctx) error {
	req := new(domain.ResetPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResetPassword, err)
	}

	return domain.Fold(h.userService.ResetPassword(c.Context(), *req),
		func(domain.Unit) error {
			return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessResetPassword)
		},
		func(err domain.DomainError) error {
			return presenters.ErrorResponse(c, userErrorStatus(err), domain.MessageFailedResetPassword, err)
		},
	)
}

// sessionID reads the client-generated session identifier. Session state
// is keyed by it server-side, so an empty value just disables remember-me
// features for the request.
func sessionID(c *fiber.Ctx) string {
	return c.Get("X-Session-Id")
}

func userErrorStatus(err domain.DomainError) int {
	ue, ok := err.(domain.UserError)
	if !ok {
		return fiber.StatusBadRequest
	}
	switch ue.Kind {
	case domain.UserNotFound:
		return fiber.StatusNotFound
	case domain.WrongPassword:
		return fiber.StatusUnauthorized
	case domain.UsernameInUse, domain.EmailInUse:
		return fiber.StatusConflict
	case domain.UserUnknown:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}
