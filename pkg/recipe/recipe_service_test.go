package recipe

import (
	"context"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	s3      *testutil.FakeStorage
	service RecipeService

	author  *entities.User
	other   *entities.User
	flour   *entities.Ingredient
	salt    *entities.Ingredient
	sugar   *entities.Ingredient
	dinner  *entities.Tag
	dessert *entities.Tag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	s3 := testutil.NewFakeStorage()
	service := NewRecipeService(
		NewRecipeRepository(db),
		tag.NewTagRepository(db),
		ingredient.NewIngredientRepository(db),
		user.NewUserRepository(db),
		s3,
	)

	f := &fixture{
		db:      db,
		s3:      s3,
		service: service,
		author:  testutil.CreateUser(t, db, "alice"),
		other:   testutil.CreateUser(t, db, "bob"),
		flour:   testutil.CreateIngredient(t, db, "flour", "g"),
		salt:    testutil.CreateIngredient(t, db, "salt", "g"),
		sugar:   testutil.CreateIngredient(t, db, "sugar", "g"),
		dinner:  testutil.CreateTag(t, db, "Dinner"),
		dessert: testutil.CreateTag(t, db, "Dessert"),
	}
	return f
}

func (f *fixture) request() domain.RecipeRequest {
	return domain.RecipeRequest{
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.flour.ID, Amount: 200},
			{ID: f.salt.ID, Amount: 5},
		},
		Tags:        []uint{f.dinner.ID},
		Image:       testutil.PNG,
		Name:        "Bread",
		Text:        "Knead and bake.",
		CookingTime: 90,
	}
}

func ingredientAmounts(r domain.Recipe) map[uint]int {
	amounts := make(map[uint]int, len(r.Ingredients))
	for _, i := range r.Ingredients {
		amounts[i.ID] = i.Amount
	}
	return amounts
}

func tagIDs(r domain.Recipe) []uint {
	ids := make([]uint, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestCreateRecipeRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID)
	require.NoError(t, err)

	got, err := f.service.GetRecipe(ctx, created.ID, 0)
	require.NoError(t, err)

	assert.Equal(t, "Bread", got.Name)
	assert.Equal(t, 90, got.CookingTime)
	assert.Equal(t, f.author.ID, got.Author.ID)
	assert.Equal(t, map[uint]int{f.flour.ID: 200, f.salt.ID: 5}, ingredientAmounts(got))
	assert.Equal(t, []uint{f.dinner.ID}, tagIDs(got))
	assert.Equal(t, "g", got.Ingredients[0].MeasurementUnit)
	assert.NotEmpty(t, got.Image)
	assert.Equal(t, 1, f.s3.Count())
}

func TestCreateRecipeRejectsUnknownIDs(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.Ingredients = append(req.Ingredients, domain.RecipeIngredientRequest{ID: 9999, Amount: 1})
	req.Tags = append(req.Tags, 8888)

	_, err := f.service.CreateRecipe(context.Background(), req, f.author.ID)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "ingredients")
	assert.Contains(t, verr.Fields, "tags")

	var count int64
	require.NoError(t, f.db.Model(&entities.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, f.s3.Count())
}

func TestUpdateRecipeReplacesChildren(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID)
	require.NoError(t, err)

	req := f.request()
	req.Image = ""
	req.Name = "Sweet bread"
	req.Ingredients = []domain.RecipeIngredientRequest{{ID: f.sugar.ID, Amount: 50}}
	req.Tags = []uint{f.dessert.ID}

	updated, err := f.service.UpdateRecipe(ctx, created.ID, req, f.author.ID)
	require.NoError(t, err)

	assert.Equal(t, "Sweet bread", updated.Name)
	assert.Equal(t, created.Image, updated.Image)
	assert.Equal(t, map[uint]int{f.sugar.ID: 50}, ingredientAmounts(updated))
	assert.Equal(t, []uint{f.dessert.ID}, tagIDs(updated))

	var joins int64
	require.NoError(t, f.db.Model(&entities.RecipeIngredient{}).Where("recipe_id = ?", created.ID).Count(&joins).Error)
	assert.EqualValues(t, 1, joins)
}

func TestUpdateRecipeReplacesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID)
	require.NoError(t, err)

	updated, err := f.service.UpdateRecipe(ctx, created.ID, f.request(), f.author.ID)
	require.NoError(t, err)

	assert.NotEqual(t, created.Image, updated.Image)
	assert.Equal(t, 1, f.s3.Count())
	assert.Len(t, f.s3.Deleted, 1)
}

func TestUpdateRecipeInvalidKeepsPreviousState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID)
	require.NoError(t, err)

	req := f.request()
	req.Name = "Changed"
	req.Ingredients = []domain.RecipeIngredientRequest{
		{ID: f.sugar.ID, Amount: 10},
		{ID: 424242, Amount: 1},
	}
	req.Tags = []uint{f.dessert.ID}

	_, err = f.service.UpdateRecipe(ctx, created.ID, req, f.author.ID)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := f.service.GetRecipe(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Bread", got.Name)
	assert.Equal(t, map[uint]int{f.flour.ID: 200, f.salt.ID: 5}, ingredientAmounts(got))
	assert.Equal(t, []uint{f.dinner.ID}, tagIDs(got))
}

func TestNonAuthorCannotModify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID)
	require.NoError(t, err)

	// payload validity does not matter to the ownership check
	_, err = f.service.UpdateRecipe(ctx, created.ID, domain.RecipeRequest{}, f.other.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	err = f.service.DeleteRecipe(ctx, created.ID, f.other.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	_, err = f.service.GetRecipe(ctx, created.ID, 0)
	assert.NoError(t, err)
}

func TestMissingRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.GetRecipe(ctx, 777, 0)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	_, err = f.service.UpdateRecipe(ctx, 777, f.request(), f.author.ID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	err = f.service.DeleteRecipe(ctx, 777, f.author.ID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestDeleteRecipeCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.request(), f.author.ID)
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&entities.Favorite{UserID: f.other.ID, RecipeID: created.ID}).Error)
	require.NoError(t, f.db.Create(&entities.ShoppingCartItem{UserID: f.other.ID, RecipeID: created.ID}).Error)

	require.NoError(t, f.service.DeleteRecipe(ctx, created.ID, f.author.ID))

	for _, model := range []any{
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.RecipeTag{},
		&entities.Favorite{},
		&entities.ShoppingCartItem{},
	} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows left", model)
	}
	assert.Zero(t, f.s3.Count())
}

func TestGetRecipesFlagsAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bread := testutil.CreateRecipe(t, f.db, f.author, "Bread", 90, []*entities.Tag{f.dinner},
		testutil.Amount{Ingredient: f.flour, Amount: 200})
	cake := testutil.CreateRecipe(t, f.db, f.author, "Cake", 60, []*entities.Tag{f.dessert},
		testutil.Amount{Ingredient: f.sugar, Amount: 100})
	soup := testutil.CreateRecipe(t, f.db, f.other, "Soup", 30, []*entities.Tag{f.dinner},
		testutil.Amount{Ingredient: f.salt, Amount: 5})

	require.NoError(t, f.db.Create(&entities.Favorite{UserID: f.other.ID, RecipeID: cake.ID}).Error)
	require.NoError(t, f.db.Create(&entities.ShoppingCartItem{UserID: f.other.ID, RecipeID: bread.ID}).Error)
	require.NoError(t, f.db.Create(&entities.Subscription{UserID: f.other.ID, AuthorID: f.author.ID}).Error)

	ids := func(res domain.PaginatedResponse[domain.Recipe]) []uint {
		out := make([]uint, 0, len(res.Results))
		for _, r := range res.Results {
			out = append(out, r.ID)
		}
		return out
	}

	t.Run("anonymous sees false flags", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Count)
		for _, r := range res.Results {
			assert.False(t, r.IsFavorited)
			assert.False(t, r.IsInShoppingCart)
			assert.False(t, r.Author.IsSubscribed)
		}
	})

	t.Run("anonymous membership filters are ignored", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: true}, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Count)
	})

	t.Run("viewer flags", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, f.other.ID)
		require.NoError(t, err)
		for _, r := range res.Results {
			assert.Equal(t, r.ID == cake.ID, r.IsFavorited, r.Name)
			assert.Equal(t, r.ID == bread.ID, r.IsInShoppingCart, r.Name)
			assert.Equal(t, r.Author.ID == f.author.ID, r.Author.IsSubscribed, r.Name)
		}
	})

	t.Run("favorited filter", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: true}, f.other.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{cake.ID}, ids(res))
	})

	t.Run("shopping cart filter", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{IsInShoppingCart: true}, f.other.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{bread.ID}, ids(res))
	})

	t.Run("tag slugs are ORed", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{TagSlugs: []string{"dinner"}}, 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{bread.ID, soup.ID}, ids(res))

		res, err = f.service.GetRecipes(ctx, domain.RecipeFilter{TagSlugs: []string{"dinner", "dessert"}}, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Count)
	})

	t.Run("author filter", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{AuthorID: f.other.ID}, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{soup.ID}, ids(res))
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Search: "CAK"}, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{cake.ID}, ids(res))
	})

	t.Run("ordering and pagination", func(t *testing.T) {
		filter := domain.RecipeFilter{
			Ordering:          domain.RecipeOrderCookingTime,
			PaginationRequest: domain.PaginationRequest{Page: 1, Limit: 2},
		}
		res, err := f.service.GetRecipes(ctx, filter, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{soup.ID, cake.ID}, ids(res))
		require.NotNil(t, res.Next)
		assert.Equal(t, 2, *res.Next)
		assert.Nil(t, res.Previous)

		filter.Page = 2
		res, err = f.service.GetRecipes(ctx, filter, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{bread.ID}, ids(res))
		assert.Nil(t, res.Next)
	})

	t.Run("default newest first", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{soup.ID, cake.ID, bread.ID}, ids(res))
	})
}

func TestGetShortLink(t *testing.T) {
	f := newFixture(t)
	utils.SetConfig("APP_URL", "https://foodgram.test/")
	utils.SetConfig("SHORT_LINK_SECRET", "links")

	r := testutil.CreateRecipe(t, f.db, f.author, "Bread", 90, []*entities.Tag{f.dinner},
		testutil.Amount{Ingredient: f.flour, Amount: 200})

	res, err := f.service.GetShortLink(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://foodgram.test/s/"+ShortLink(r.ID, "links"), res.ShortLink)

	_, err = f.service.GetShortLink(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}
