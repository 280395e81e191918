package handlers

import (
	"strconv"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/shoppinglist"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		GetShortLink(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService       recipe.RecipeService
		shoppingListService shoppinglist.ShoppingListService
		validator           *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, shoppingListService shoppinglist.ShoppingListService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService:       recipeService,
		shoppingListService: shoppingListService,
		validator:           validator,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	filter := domain.RecipeFilter{
		TagSlugs:          queryList(c, "tags"),
		IsFavorited:       queryFlag(c, "is_favorited"),
		IsInShoppingCart:  queryFlag(c, "is_in_shopping_cart"),
		Search:            c.Query("search"),
		Ordering:          c.Query("ordering"),
		PaginationRequest: parsePagination(c),
	}
	if author := c.Query("author"); author != "" {
		id, err := strconv.ParseUint(author, 10, 64)
		if err != nil {
			verr := domain.NewValidationError()
			verr.Add("author", "a valid user id is required")
			return errorResponse(c, domain.MessageFailedGetRecipes, verr)
		}
		filter.AuthorID = uint(id)
	}

	res, err := h.recipeService.GetRecipes(c.Context(), filter, middleware.CurrentUserID(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetRecipeDetail, err)
	}

	res, err := h.recipeService.GetRecipe(c.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.RecipeRequest)
	if err := parseBody(c, req); err != nil {
		return errorResponse(c, domain.MessageFailedBodyRequest, err)
	}
	if err := validateStruct(h.validator, req); err != nil {
		return errorResponse(c, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, middleware.CurrentUserID(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedCreateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

// UpdateRecipe serves both PUT and PATCH.
func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedUpdateRecipe, err)
	}

	req := new(domain.RecipeRequest)
	if err := parseBody(c, req); err != nil {
		return errorResponse(c, domain.MessageFailedBodyRequest, err)
	}
	if err := validateStruct(h.validator, req); err != nil {
		return errorResponse(c, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), id, *req, middleware.CurrentUserID(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedUpdateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedDeleteRecipe, err)
	}

	if err := h.recipeService.DeleteRecipe(c.Context(), id, middleware.CurrentUserID(c)); err != nil {
		return errorResponse(c, domain.MessageFailedDeleteRecipe, err)
	}
	return presenters.NoContent(c)
}

func (h *recipeHandler) GetShortLink(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetShortLink, err)
	}

	res, err := h.recipeService.GetShortLink(c.Context(), id)
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetShortLink, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetShortLink)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	body, err := h.shoppingListService.Download(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		return errorResponse(c, domain.MessageFailedDownloadShoppingList, err)
	}

	c.Set(fiber.HeaderContentType, shoppinglist.ContentType)
	c.Attachment(shoppinglist.FileName)
	return c.Status(fiber.StatusOK).SendString(body)
}
