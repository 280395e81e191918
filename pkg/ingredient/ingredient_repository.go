package ingredient

import (
	"context"
	"strings"

	"Foodgram-Backend/entities"

	"gorm.io/gorm"
)

type (
	IngredientRepository interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id uint) (*entities.Ingredient, error)
		GetExistingIngredientIDs(ctx context.Context, ids []uint) (map[uint]bool, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *ingredientRepository) GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient

	query := r.db.WithContext(ctx).Model(&entities.Ingredient{})
	if namePrefix = strings.TrimSpace(namePrefix); namePrefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(namePrefix)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}

	if err := query.Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uint) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetExistingIngredientIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	existing := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	var found []uint
	if err := r.db.WithContext(ctx).
		Model(&entities.Ingredient{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}
