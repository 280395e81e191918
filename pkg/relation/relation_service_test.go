package relation

import (
	"context"
	"sync"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeToggles(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewRelationService(NewRelationRepository(db))
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	recipe := testutil.CreateRecipe(t, db, alice, "Bread", 90, nil)

	cases := []struct {
		name       string
		add        func(context.Context, uint, uint) (domain.RecipeMinified, error)
		remove     func(context.Context, uint, uint) error
		errExists  error
		errMissing error
		model      any
	}{
		{
			name:       "favorites",
			add:        service.AddFavorite,
			remove:     service.RemoveFavorite,
			errExists:  domain.ErrAlreadyInFavorites,
			errMissing: domain.ErrNotInFavorites,
			model:      &entities.Favorite{},
		},
		{
			name:       "shopping cart",
			add:        service.AddToShoppingCart,
			remove:     service.RemoveFromShoppingCart,
			errExists:  domain.ErrAlreadyInShoppingCart,
			errMissing: domain.ErrNotInShoppingCart,
			model:      &entities.ShoppingCartItem{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.add(ctx, bob.ID, recipe.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.RecipeMinified{
				ID:          recipe.ID,
				Name:        "Bread",
				Image:       recipe.Image,
				CookingTime: 90,
			}, res)

			_, err = tc.add(ctx, bob.ID, recipe.ID)
			assert.ErrorIs(t, err, tc.errExists)

			var count int64
			require.NoError(t, db.Model(tc.model).Count(&count).Error)
			assert.EqualValues(t, 1, count)

			require.NoError(t, tc.remove(ctx, bob.ID, recipe.ID))
			assert.ErrorIs(t, tc.remove(ctx, bob.ID, recipe.ID), tc.errMissing)

			_, err = tc.add(ctx, bob.ID, 9999)
			assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
			assert.ErrorIs(t, tc.remove(ctx, bob.ID, 9999), domain.ErrRecipeNotFound)
		})
	}
}

func TestConcurrentAddKeepsOneRow(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewRelationService(NewRelationRepository(db))
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	recipe := testutil.CreateRecipe(t, db, alice, "Bread", 90, nil)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.AddFavorite(ctx, alice.ID, recipe.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyInFavorites)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, db.Model(&entities.Favorite{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubscriptions(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewRelationService(NewRelationRepository(db))
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	testutil.CreateRecipe(t, db, alice, "First", 10, nil)
	testutil.CreateRecipe(t, db, alice, "Second", 20, nil)
	third := testutil.CreateRecipe(t, db, alice, "Third", 30, nil)

	t.Run("self subscription is rejected", func(t *testing.T) {
		_, err := service.Subscribe(ctx, bob.ID, bob.ID, 0)
		assert.ErrorIs(t, err, domain.ErrSelfSubscription)
		assert.ErrorIs(t, service.Unsubscribe(ctx, bob.ID, bob.ID), domain.ErrSelfSubscription)

		var count int64
		require.NoError(t, db.Model(&entities.Subscription{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := service.Subscribe(ctx, bob.ID, 9999, 0)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("subscribe returns truncated recipes", func(t *testing.T) {
		res, err := service.Subscribe(ctx, bob.ID, alice.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, res.ID)
		assert.True(t, res.IsSubscribed)
		assert.EqualValues(t, 3, res.RecipesCount)
		require.Len(t, res.Recipes, 1)
		assert.Equal(t, third.ID, res.Recipes[0].ID)

		_, err = service.Subscribe(ctx, bob.ID, alice.ID, 0)
		assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
	})

	t.Run("list subscriptions", func(t *testing.T) {
		_, err := service.Subscribe(ctx, bob.ID, carol.ID, 0)
		require.NoError(t, err)

		res, err := service.GetSubscriptions(ctx, bob.ID, domain.SubscriptionListRequest{RecipesLimit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 2, res.Count)
		require.Len(t, res.Results, 2)
		assert.Equal(t, "alice", res.Results[0].Username)
		assert.Len(t, res.Results[0].Recipes, 2)
		assert.EqualValues(t, 3, res.Results[0].RecipesCount)
		assert.Equal(t, "carol", res.Results[1].Username)
		assert.Empty(t, res.Results[1].Recipes)
		assert.Zero(t, res.Results[1].RecipesCount)
	})

	t.Run("unsubscribe twice", func(t *testing.T) {
		require.NoError(t, service.Unsubscribe(ctx, bob.ID, alice.ID))
		assert.ErrorIs(t, service.Unsubscribe(ctx, bob.ID, alice.ID), domain.ErrNotSubscribed)
	})
}

func TestListMemberRecipes(t *testing.T) {
	db := testutil.NewDB(t)
	service := NewRelationService(NewRelationRepository(db))
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	first := testutil.CreateRecipe(t, db, alice, "First", 10, nil)
	second := testutil.CreateRecipe(t, db, alice, "Second", 20, nil)
	testutil.CreateRecipe(t, db, alice, "Third", 30, nil)

	_, err := service.AddFavorite(ctx, bob.ID, first.ID)
	require.NoError(t, err)
	_, err = service.AddFavorite(ctx, bob.ID, second.ID)
	require.NoError(t, err)
	_, err = service.AddToShoppingCart(ctx, bob.ID, second.ID)
	require.NoError(t, err)

	favorites, err := service.GetFavorites(ctx, bob.ID, domain.PaginationRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, favorites.Count)
	require.Len(t, favorites.Results, 2)
	assert.Equal(t, second.ID, favorites.Results[0].ID)
	assert.Equal(t, first.ID, favorites.Results[1].ID)

	cart, err := service.GetShoppingCart(ctx, bob.ID, domain.PaginationRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, cart.Count)
	assert.Equal(t, "Second", cart.Results[0].Name)

	empty, err := service.GetFavorites(ctx, alice.ID, domain.PaginationRequest{})
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.NotNil(t, empty.Results)
}
