package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID uint) (domain.PaginatedResponse[domain.Recipe], error)
		GetRecipe(ctx context.Context, id uint, viewerID uint) (domain.Recipe, error)
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, authorID uint) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, id uint, req domain.RecipeRequest, userID uint) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, id uint, userID uint) error
		GetShortLink(ctx context.Context, id uint) (domain.ShortLinkResponse, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		userRepository       user.UserRepository
		s3                   storage.AwsS3
		validator            *validator.Validate
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		userRepository:       userRepository,
		s3:                   s3,
		validator:            utils.Validator(),
	}
}

// ToRecipeMinified is the compact shape used by favorites, cart and
// subscription listings.
func ToRecipeMinified(r *entities.Recipe) domain.RecipeMinified {
	return domain.RecipeMinified{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func toRecipeResponse(r *entities.Recipe, favorited, inCart, authorSubscribed bool) domain.Recipe {
	res := domain.Recipe{
		ID:               r.ID,
		Tags:             make([]domain.Tag, 0, len(r.RecipeTags)),
		Author:           user.ToUserResponse(r.Author, authorSubscribed),
		Ingredients:      make([]domain.RecipeIngredient, 0, len(r.RecipeIngredients)),
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	for _, rt := range r.RecipeTags {
		if rt.Tag != nil {
			res.Tags = append(res.Tags, tag.ToTagResponse(rt.Tag))
		}
	}
	for _, ri := range r.RecipeIngredients {
		if ri.Ingredient == nil {
			continue
		}
		res.Ingredients = append(res.Ingredients, domain.RecipeIngredient{
			ID:              ri.Ingredient.ID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	return res
}

// toRecipeResponses attaches the viewer flags with one query per flag for the
// whole page.
func (s *recipeService) toRecipeResponses(ctx context.Context, recipes []*entities.Recipe, viewerID uint) ([]domain.Recipe, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.recipeRepository.GetFavoritedIDs(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.recipeRepository.GetInShoppingCartIDs(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.userRepository.GetSubscribedAuthorIDs(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		res = append(res, toRecipeResponse(r, favorited[r.ID], inCart[r.ID], subscribed[r.AuthorID]))
	}
	return res, nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID uint) (domain.PaginatedResponse[domain.Recipe], error) {
	filter.PaginationRequest = filter.PaginationRequest.Normalize()

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID)
	if err != nil {
		return domain.PaginatedResponse[domain.Recipe]{}, err
	}

	res, err := s.toRecipeResponses(ctx, recipes, viewerID)
	if err != nil {
		return domain.PaginatedResponse[domain.Recipe]{}, err
	}
	return domain.NewPaginatedResponse(res, count, filter.PaginationRequest), nil
}

func (s *recipeService) getRecipe(ctx context.Context, id uint) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id uint, viewerID uint) (domain.Recipe, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}

	res, err := s.toRecipeResponses(ctx, []*entities.Recipe{recipe}, viewerID)
	if err != nil {
		return domain.Recipe{}, err
	}
	return res[0], nil
}

func buildChildren(req domain.RecipeRequest) ([]*entities.RecipeIngredient, []*entities.RecipeTag) {
	ingredients := make([]*entities.RecipeIngredient, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredients = append(ingredients, &entities.RecipeIngredient{
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}

	tags := make([]*entities.RecipeTag, 0, len(req.Tags))
	for _, id := range req.Tags {
		tags = append(tags, &entities.RecipeTag{TagID: id})
	}
	return ingredients, tags
}

func (s *recipeService) uploadImage(ctx context.Context, authorID uint, dataURI string) (string, error) {
	objectKey, err := s.s3.UploadBase64(ctx, fmt.Sprintf("recipe-%d", authorID), dataURI, "recipes", storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidDataURI) || errors.Is(err, storage.ErrContentTypeDenied) {
			verr := domain.NewValidationError()
			verr.Add("image", err.Error())
			return "", verr
		}
		return "", err
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

// removeImage deletes a stored image. A failure leaves an orphan object, so
// it is only logged.
func (s *recipeService) removeImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, ok := s.s3.ObjectKeyFromURL(url)
	if !ok {
		return
	}
	if err := s.s3.DeleteFile(ctx, key); err != nil {
		logging.Warn().Err(err).Str("object_key", key).Msg("failed to delete recipe image")
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, authorID uint) (domain.Recipe, error) {
	if err := s.validateRecipePayload(ctx, req, true); err != nil {
		return domain.Recipe{}, err
	}

	image, err := s.uploadImage(ctx, authorID, req.Image)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(req.Name),
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	ingredients, tags := buildChildren(req)
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, ingredients, tags); err != nil {
		s.removeImage(ctx, image)
		return domain.Recipe{}, err
	}

	return s.GetRecipe(ctx, recipe.ID, authorID)
}

func (s *recipeService) authorize(ctx context.Context, id uint, userID uint) (*entities.Recipe, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id uint, req domain.RecipeRequest, userID uint) (domain.Recipe, error) {
	recipe, err := s.authorize(ctx, id, userID)
	if err != nil {
		return domain.Recipe{}, err
	}

	if err := s.validateRecipePayload(ctx, req, false); err != nil {
		return domain.Recipe{}, err
	}

	previousImage := recipe.Image
	newImage := ""
	if req.Image != "" {
		newImage, err = s.uploadImage(ctx, userID, req.Image)
		if err != nil {
			return domain.Recipe{}, err
		}
		recipe.Image = newImage
	}

	recipe.Name = strings.TrimSpace(req.Name)
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.Author = nil
	recipe.RecipeIngredients = nil
	recipe.RecipeTags = nil

	ingredients, tags := buildChildren(req)
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, ingredients, tags); err != nil {
		s.removeImage(ctx, newImage)
		return domain.Recipe{}, err
	}

	if newImage != "" {
		s.removeImage(ctx, previousImage)
	}
	return s.GetRecipe(ctx, recipe.ID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id uint, userID uint) error {
	recipe, err := s.authorize(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	s.removeImage(ctx, recipe.Image)
	return nil
}

func (s *recipeService) GetShortLink(ctx context.Context, id uint) (domain.ShortLinkResponse, error) {
	if _, err := s.getRecipe(ctx, id); err != nil {
		return domain.ShortLinkResponse{}, err
	}

	secret := utils.GetConfig("SHORT_LINK_SECRET")
	token := ShortLink(id, secret)
	base := strings.TrimRight(utils.GetConfig("APP_URL"), "/")
	return domain.ShortLinkResponse{ShortLink: base + "/s/" + token}, nil
}
