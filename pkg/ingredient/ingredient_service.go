package ingredient

import (
	"context"
	"errors"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"gorm.io/gorm"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error)
		GetIngredient(ctx context.Context, id uint) (domain.Ingredient, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func ToIngredientResponse(i *entities.Ingredient) domain.Ingredient {
	return domain.Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func (s *ingredientService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		res = append(res, ToIngredientResponse(i))
	}
	return res, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id uint) (domain.Ingredient, error) {
	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ingredient{}, domain.ErrIngredientNotFound
		}
		return domain.Ingredient{}, err
	}
	return ToIngredientResponse(ingredient), nil
}
