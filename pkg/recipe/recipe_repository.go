package recipe

import (
	"context"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient, tags []*entities.RecipeTag) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient, tags []*entities.RecipeTag) error
		GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID uint) ([]*entities.Recipe, int64, error)
		DeleteRecipe(ctx context.Context, id uint) error
		GetFavoritedIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
		GetInShoppingCartIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("RecipeIngredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id asc")
		}).
		Preload("RecipeIngredients.Ingredient").
		Preload("RecipeTags", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_tags.id asc")
		}).
		Preload("RecipeTags.Tag")
}

// replaceChildren swaps the whole ingredient and tag set of a recipe. It must
// run inside the caller's transaction.
func replaceChildren(tx *gorm.DB, recipeID uint, ingredients []*entities.RecipeIngredient, tags []*entities.RecipeTag) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeTag{}).Error; err != nil {
		return err
	}

	for _, ri := range ingredients {
		ri.ID = 0
		ri.RecipeID = recipeID
	}
	for _, rt := range tags {
		rt.ID = 0
		rt.RecipeID = recipeID
	}

	if len(ingredients) > 0 {
		if err := tx.Omit(clause.Associations).Create(&ingredients).Error; err != nil {
			return err
		}
	}
	if len(tags) > 0 {
		if err := tx.Omit(clause.Associations).Create(&tags).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient, tags []*entities.RecipeTag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return replaceChildren(tx, recipe.ID, ingredients, tags)
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []*entities.RecipeIngredient, tags []*entities.RecipeTag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		return replaceChildren(tx, recipe.ID, ingredients, tags)
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := withDetails(r.db.WithContext(ctx)).
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID uint) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}

	if len(filter.TagSlugs) > 0 {
		tagged := r.db.WithContext(ctx).
			Model(&entities.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	// membership filters only mean something for a known caller
	if viewerID != 0 && filter.IsFavorited {
		favorited := r.db.WithContext(ctx).
			Model(&entities.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", viewerID)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if viewerID != 0 && filter.IsInShoppingCart {
		inCart := r.db.WithContext(ctx).
			Model(&entities.ShoppingCartItem{}).
			Select("recipe_id").
			Where("user_id = ?", viewerID)
		query = query.Where("recipes.id IN (?)", inCart)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where(`(LOWER(recipes.name) LIKE ? ESCAPE '\' OR LOWER(recipes.text) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	query = query.Session(&gorm.Session{})

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := withDetails(query).
		Order(orderClause(filter.Ordering)).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func orderClause(ordering string) string {
	switch ordering {
	case domain.RecipeOrderName:
		return "recipes.name asc, recipes.id desc"
	case domain.RecipeOrderNameDesc:
		return "recipes.name desc, recipes.id desc"
	case domain.RecipeOrderCookingTime:
		return "recipes.cooking_time asc, recipes.id desc"
	case domain.RecipeOrderCookingTimeDesc:
		return "recipes.cooking_time desc, recipes.id desc"
	default:
		return "recipes.id desc"
	}
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&entities.RecipeIngredient{},
			&entities.RecipeTag{},
			&entities.Favorite{},
			&entities.ShoppingCartItem{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *recipeRepository) memberIDs(ctx context.Context, model any, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	members := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return members, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		members[id] = true
	}
	return members, nil
}

func (r *recipeRepository) GetFavoritedIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return r.memberIDs(ctx, &entities.Favorite{}, userID, recipeIDs)
}

func (r *recipeRepository) GetInShoppingCartIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return r.memberIDs(ctx, &entities.ShoppingCartItem{}, userID, recipeIDs)
}
