package relation

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
)

// Relation describes one user-owned membership table. Favorites, shopping
// cart and subscriptions all share the same add/remove logic.
type Relation struct {
	Table        string
	TargetColumn string
	Model        any
	NewRow       func(userID, targetID uint) any
	ErrExists    error
	ErrMissing   error
	// ErrSelf is returned when user and target are the same id. Nil allows it.
	ErrSelf error
}

var (
	Favorites = Relation{
		Table:        "favorites",
		TargetColumn: "recipe_id",
		Model:        &entities.Favorite{},
		NewRow: func(userID, targetID uint) any {
			return &entities.Favorite{UserID: userID, RecipeID: targetID}
		},
		ErrExists:  domain.ErrAlreadyInFavorites,
		ErrMissing: domain.ErrNotInFavorites,
	}

	ShoppingCart = Relation{
		Table:        "shopping_cart_items",
		TargetColumn: "recipe_id",
		Model:        &entities.ShoppingCartItem{},
		NewRow: func(userID, targetID uint) any {
			return &entities.ShoppingCartItem{UserID: userID, RecipeID: targetID}
		},
		ErrExists:  domain.ErrAlreadyInShoppingCart,
		ErrMissing: domain.ErrNotInShoppingCart,
	}

	Subscriptions = Relation{
		Table:        "subscriptions",
		TargetColumn: "author_id",
		Model:        &entities.Subscription{},
		NewRow: func(userID, targetID uint) any {
			return &entities.Subscription{UserID: userID, AuthorID: targetID}
		},
		ErrExists:  domain.ErrAlreadySubscribed,
		ErrMissing: domain.ErrNotSubscribed,
		ErrSelf:    domain.ErrSelfSubscription,
	}
)
