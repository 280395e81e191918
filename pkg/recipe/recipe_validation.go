package recipe

import (
	"context"
	"fmt"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/storage"

	"github.com/go-playground/validator/v10"
)

// checkRecipeFields runs every check that does not need the database and
// returns the distinct ingredient and tag ids left to look up.
func checkRecipeFields(v *validator.Validate, req domain.RecipeRequest, imageRequired bool) (*domain.ValidationError, []uint, []uint) {
	verr := domain.NewValidationError()
	if fields, ok := utils.ValidationErrors(v.Struct(req)); ok {
		for field, messages := range fields {
			for _, msg := range messages {
				verr.Add(field, msg)
			}
		}
	}

	// required only rejects the empty string
	if req.Name != "" && strings.TrimSpace(req.Name) == "" {
		verr.Add("name", "this field may not be blank")
	}
	if req.Text != "" && strings.TrimSpace(req.Text) == "" {
		verr.Add("text", "this field may not be blank")
	}

	if req.Image == "" {
		if imageRequired {
			verr.Add("image", "this field is required")
		}
	} else if contentType, _, err := storage.DecodeDataURI(req.Image); err != nil {
		verr.Add("image", domain.ErrInvalidImageFormat.Error())
	} else if !isAllowedImage(contentType) {
		verr.Add("image", fmt.Sprintf("%s: %s", storage.ErrContentTypeDenied.Error(), contentType))
	}

	ingredientIDs := make([]uint, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, item.ID)
	}
	return verr, distinctIDs(ingredientIDs), distinctIDs(req.Tags)
}

func distinctIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	res := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, id)
	}
	return res
}

func isAllowedImage(contentType string) bool {
	for _, allowed := range storage.AllowImage {
		if allowed == contentType {
			return true
		}
	}
	return false
}

// validateRecipePayload checks a create or update body as a whole. Nothing is
// written when it returns an error.
func (s *recipeService) validateRecipePayload(ctx context.Context, req domain.RecipeRequest, imageRequired bool) error {
	verr, ingredientIDs, tagIDs := checkRecipeFields(s.validator, req, imageRequired)

	existingIngredients, err := s.ingredientRepository.GetExistingIngredientIDs(ctx, ingredientIDs)
	if err != nil {
		return err
	}
	for _, id := range ingredientIDs {
		if !existingIngredients[id] {
			verr.Add("ingredients", fmt.Sprintf("ingredient with id %d does not exist", id))
		}
	}

	existingTags, err := s.tagRepository.GetExistingTagIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	for _, id := range tagIDs {
		if !existingTags[id] {
			verr.Add("tags", fmt.Sprintf("tag with id %d does not exist", id))
		}
	}

	return verr.OrNil()
}
