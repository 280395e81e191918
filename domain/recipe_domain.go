package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessGetShortLink    = "success get short link"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedGetShortLink    = "failed to get short link"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("you do not have permission to modify this recipe")
)

const (
	RecipeOrderName            = "name"
	RecipeOrderNameDesc        = "-name"
	RecipeOrderCookingTime     = "cooking_time"
	RecipeOrderCookingTimeDesc = "-cooking_time"
)

type (
	RecipeIngredientRequest struct {
		ID     uint `json:"id" validate:"required"`
		Amount int  `json:"amount" validate:"min=1"`
	}

	// RecipeRequest is the body of create, full update and partial update.
	// Image is checked by the recipe service since only create requires it.
	RecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
		Tags        []uint                    `json:"tags" validate:"required,min=1,unique,dive,gt=0"`
		Image       string                    `json:"image"`
		Name        string                    `json:"name" validate:"required,max=256"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"min=1"`
	}

	RecipeFilter struct {
		AuthorID         uint
		TagSlugs         []string
		IsFavorited      bool
		IsInShoppingCart bool
		Search           string
		Ordering         string
		PaginationRequest
	}

	RecipeIngredient struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	Recipe struct {
		ID               uint               `json:"id"`
		Tags             []Tag              `json:"tags"`
		Author           User               `json:"author"`
		Ingredients      []RecipeIngredient `json:"ingredients"`
		IsFavorited      bool               `json:"is_favorited"`
		IsInShoppingCart bool               `json:"is_in_shopping_cart"`
		Name             string             `json:"name"`
		Image            string             `json:"image"`
		Text             string             `json:"text"`
		CookingTime      int                `json:"cooking_time"`
	}

	RecipeMinified struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	ShortLinkResponse struct {
		ShortLink string `json:"short-link"`
	}
)
