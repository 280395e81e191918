package handlers

import (
	"strconv"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/relation"

	"github.com/gofiber/fiber/v2"
)

type (
	RelationHandler interface {
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		GetFavorites(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		GetShoppingCart(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
		GetSubscriptions(c *fiber.Ctx) error
	}

	relationHandler struct {
		relationService relation.RelationService
	}
)

func NewRelationHandler(relationService relation.RelationService) RelationHandler {
	return &relationHandler{relationService: relationService}
}

func recipesLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func (h *relationHandler) AddFavorite(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedAddFavorite, err)
	}

	res, err := h.relationService.AddFavorite(c.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		return errorResponse(c, domain.MessageFailedAddFavorite, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFavorite)
}

func (h *relationHandler) RemoveFavorite(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedRemoveFavorite, err)
	}

	if err := h.relationService.RemoveFavorite(c.Context(), middleware.CurrentUserID(c), id); err != nil {
		return errorResponse(c, domain.MessageFailedRemoveFavorite, err)
	}
	return presenters.NoContent(c)
}

func (h *relationHandler) GetFavorites(c *fiber.Ctx) error {
	res, err := h.relationService.GetFavorites(c.Context(), middleware.CurrentUserID(c), parsePagination(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetFavorites, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFavorites)
}

func (h *relationHandler) AddToShoppingCart(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedAddShoppingCart, err)
	}

	res, err := h.relationService.AddToShoppingCart(c.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		return errorResponse(c, domain.MessageFailedAddShoppingCart, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddShoppingCart)
}

func (h *relationHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedRemoveShoppingCart, err)
	}

	if err := h.relationService.RemoveFromShoppingCart(c.Context(), middleware.CurrentUserID(c), id); err != nil {
		return errorResponse(c, domain.MessageFailedRemoveShoppingCart, err)
	}
	return presenters.NoContent(c)
}

func (h *relationHandler) GetShoppingCart(c *fiber.Ctx) error {
	res, err := h.relationService.GetShoppingCart(c.Context(), middleware.CurrentUserID(c), parsePagination(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetShoppingCart, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetShoppingCart)
}

func (h *relationHandler) Subscribe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedSubscribe, err)
	}

	res, err := h.relationService.Subscribe(c.Context(), middleware.CurrentUserID(c), id, recipesLimit(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedSubscribe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *relationHandler) Unsubscribe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedUnsubscribe, err)
	}

	if err := h.relationService.Unsubscribe(c.Context(), middleware.CurrentUserID(c), id); err != nil {
		return errorResponse(c, domain.MessageFailedUnsubscribe, err)
	}
	return presenters.NoContent(c)
}

func (h *relationHandler) GetSubscriptions(c *fiber.Ctx) error {
	req := domain.SubscriptionListRequest{
		PaginationRequest: parsePagination(c),
		RecipesLimit:      recipesLimit(c),
	}

	res, err := h.relationService.GetSubscriptions(c.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetSubscriptions, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSubscriptions)
}
