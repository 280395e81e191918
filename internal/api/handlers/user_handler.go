package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
		GetUsers(c *fiber.Ctx) error
		GetUser(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		UpdateMe(c *fiber.Ctx) error
		DeleteMe(c *fiber.Ctx) error
		SetAvatar(c *fiber.Ctx) error
		DeleteAvatar(c *fiber.Ctx) error
		SetPassword(c *fiber.Ctx) error
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
	req := new(domain.RegisterRequest)
	if err := parseBody(c, req); err != nil {
		return errorResponse(c, domain.MessageFailedBodyRequest, err)
	}
	if err := validateStruct(h.validator, req); err != nil {
		return errorResponse(c, domain.MessageFailedRegister, err)
	}

	res, err := h.userService.Register(c.Context(), *req)
	if err != nil {
		return errorResponse(c, domain.MessageFailedRegister, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)
	if err := parseBody(c, req); err != nil {
		return errorResponse(c, domain.MessageFailedBodyRequest, err)
	}
	if err := validateStruct(h.validator, req); err != nil {
		return errorResponse(c, domain.MessageFailedLogin, err)
	}

	res, err := h.userService.Login(c.Context(), *req)
	if err != nil {
		return errorResponse(c, domain.MessageFailedLogin, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) Logout(c *fiber.Ctx) error {
	if err := h.userService.Logout(c.Context(), middleware.CurrentClaims(c)); err != nil {
		return errorResponse(c, domain.MessageFailedLogout, err)
	}
	return presenters.NoContent(c)
}

func (h *userHandler) GetUsers(c *fiber.Ctx) error {
	res, err := h.userService.GetUsers(c.Context(), parsePagination(c), middleware.CurrentUserID(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetUsers, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUsers)
}

func (h *userHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetUser, err)
	}

	res, err := h.userService.GetUser(c.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	res, err := h.userService.GetUser(c.Context(), userID, userID)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) UpdateMe(c *fiber.Ctx) error {
	req := new(domain.UpdateUserRequest)
	if err := parseBody(c, req); err != nil {
		return errorResponse(c, domain.MessageFailedBodyRequest, err)
	}
	if err := validateStruct(h.validator, req); err != nil {
		return errorResponse(c, domain.MessageFailedUpdateUser, err)
	}

	res, err := h.userService.UpdateUser(c.Context(), middleware.CurrentUserID(c), *req)
	if err != nil {
		return errorResponse(c, domain.MessageFailedUpdateUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateUser)
}

func (h *userHandler) DeleteMe(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Context(), middleware.CurrentUserID(c)); err != nil {
		return errorResponse(c, domain.MessageFailedDeleteUser, err)
	}
	return presenters.NoContent(c)
}

func (h *userHandler) SetAvatar(c *fiber.Ctx) error {
	req := new(domain.SetAvatarRequest)
	if err := parseBody(c, req); err != nil {
		return errorResponse(c, domain.MessageFailedBodyRequest, err)
	}
	if err := validateStruct(h.validator, req); err != nil {
		return errorResponse(c, domain.MessageFailedSetAvatar, err)
	}

	res, err := h.userService.SetAvatar(c.Context(), middleware.CurrentUserID(c), *req)
	if err != nil {
		return errorResponse(c, domain.MessageFailedSetAvatar, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSetAvatar)
}

func (h *userHandler) DeleteAvatar(c *fiber.Ctx) error {
	if err := h.userService.DeleteAvatar(c.Context(), middleware.CurrentUserID(c)); err != nil {
		return errorResponse(c, domain.MessageFailedDeleteAvatar, err)
	}
	return presenters.NoContent(c)
}

func (h *userHandler) SetPassword(c *fiber.Ctx) error {
	req := new(domain.SetPasswordRequest)
	if err := parseBody(c, req); err != nil {
		return errorResponse(c, domain.MessageFailedBodyRequest, err)
	}
	if err := validateStruct(h.validator, req); err != nil {
		return errorResponse(c, domain.MessageFailedChangePassword, err)
	}

	if err := h.userService.ChangePassword(c.Context(), middleware.CurrentUserID(c), *req); err != nil {
		return errorResponse(c, domain.MessageFailedChangePassword, err)
	}
	return presenters.NoContent(c)
}
