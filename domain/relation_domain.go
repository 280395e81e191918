package domain

import "errors"

var (
	MessageSuccessAddFavorite      = "recipe added to favorites"
	MessageSuccessAddShoppingCart  = "recipe added to shopping cart"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessGetFavorites     = "success get favorites"
	MessageSuccessGetShoppingCart  = "success get shopping cart"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedAddFavorite          = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite       = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart   = "failed to remove recipe from shopping cart"
	MessageFailedSubscribe            = "failed to subscribe"
	MessageFailedUnsubscribe          = "failed to unsubscribe"
	MessageFailedGetFavorites         = "failed to get favorites"
	MessageFailedGetShoppingCart      = "failed to get shopping cart"
	MessageFailedGetSubscriptions     = "failed to get subscriptions"
	MessageFailedDownloadShoppingList = "failed to download shopping list"

	ErrAlreadyInFavorites    = errors.New("recipe is already in favorites")
	ErrNotInFavorites        = errors.New("recipe is not in favorites")
	ErrAlreadyInShoppingCart = errors.New("recipe is already in shopping cart")
	ErrNotInShoppingCart     = errors.New("recipe is not in shopping cart")
	ErrAlreadySubscribed     = errors.New("already subscribed")
	ErrNotSubscribed         = errors.New("not subscribed")
	ErrSelfSubscription      = errors.New("cannot subscribe to yourself")
)

type (
	SubscriptionListRequest struct {
		PaginationRequest
		RecipesLimit int
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		TotalAmount     int64  `json:"total_amount"`
	}
)
