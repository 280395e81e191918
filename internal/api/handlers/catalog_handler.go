package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/tag"

	"github.com/gofiber/fiber/v2"
)

type (
	CatalogHandler interface {
		GetTags(c *fiber.Ctx) error
		GetTag(c *fiber.Ctx) error
		GetIngredients(c *fiber.Ctx) error
		GetIngredient(c *fiber.Ctx) error
	}

	catalogHandler struct {
		tagService        tag.TagService
		ingredientService ingredient.IngredientService
	}
)

func NewCatalogHandler(tagService tag.TagService, ingredientService ingredient.IngredientService) CatalogHandler {
	return &catalogHandler{
		tagService:        tagService,
		ingredientService: ingredientService,
	}
}

func (h *catalogHandler) GetTags(c *fiber.Ctx) error {
	res, err := h.tagService.GetTags(c.Context())
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *catalogHandler) GetTag(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetTag, err)
	}

	res, err := h.tagService.GetTag(c.Context(), id)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetTag, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTag)
}

func (h *catalogHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredients(c.Context(), c.Query("name"))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *catalogHandler) GetIngredient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetIngredient, err)
	}

	res, err := h.ingredientService.GetIngredient(c.Context(), id)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetIngredient, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredient)
}
