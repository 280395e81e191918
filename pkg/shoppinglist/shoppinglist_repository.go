package shoppinglist

import (
	"context"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"gorm.io/gorm"
)

type (
	ShoppingListRepository interface {
		GetShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error)
	}

	shoppingListRepository struct {
		db *gorm.DB
	}
)

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

// GetShoppingList sums ingredient amounts across every recipe in the user's
// cart, one row per (name, unit) pair.
func (r *shoppingListRepository) GetShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, CAST(SUM(recipe_ingredients.amount) AS BIGINT) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc, ingredients.measurement_unit asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
