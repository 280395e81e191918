package relation

import (
	"context"
	"errors"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/user"

	"gorm.io/gorm"
)

type (
	RelationService interface {
		AddFavorite(ctx context.Context, userID uint, recipeID uint) (domain.RecipeMinified, error)
		RemoveFavorite(ctx context.Context, userID uint, recipeID uint) error
		AddToShoppingCart(ctx context.Context, userID uint, recipeID uint) (domain.RecipeMinified, error)
		RemoveFromShoppingCart(ctx context.Context, userID uint, recipeID uint) error
		Subscribe(ctx context.Context, userID uint, authorID uint, recipesLimit int) (domain.UserWithRecipes, error)
		Unsubscribe(ctx context.Context, userID uint, authorID uint) error
		GetFavorites(ctx context.Context, userID uint, p domain.PaginationRequest) (domain.PaginatedResponse[domain.RecipeMinified], error)
		GetShoppingCart(ctx context.Context, userID uint, p domain.PaginationRequest) (domain.PaginatedResponse[domain.RecipeMinified], error)
		GetSubscriptions(ctx context.Context, userID uint, req domain.SubscriptionListRequest) (domain.PaginatedResponse[domain.UserWithRecipes], error)
	}

	relationService struct {
		relationRepository RelationRepository
	}
)

func NewRelationService(relationRepository RelationRepository) RelationService {
	return &relationService{relationRepository: relationRepository}
}

func (s *relationService) getRecipe(ctx context.Context, id uint) (*entities.Recipe, error) {
	r, err := s.relationRepository.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *relationService) getAuthor(ctx context.Context, id uint) (*entities.User, error) {
	u, err := s.relationRepository.GetAuthor(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// guard runs the checks shared by add and remove: the self guard first, then
// target existence.
func (s *relationService) guard(ctx context.Context, rel Relation, userID uint, targetID uint, lookup func(context.Context, uint) error) error {
	if rel.ErrSelf != nil && userID == targetID {
		return rel.ErrSelf
	}
	return lookup(ctx, targetID)
}

func (s *relationService) addRecipe(ctx context.Context, rel Relation, userID uint, recipeID uint) (domain.RecipeMinified, error) {
	var target *entities.Recipe
	err := s.guard(ctx, rel, userID, recipeID, func(ctx context.Context, id uint) error {
		var err error
		target, err = s.getRecipe(ctx, id)
		return err
	})
	if err != nil {
		return domain.RecipeMinified{}, err
	}

	if err := s.relationRepository.Add(ctx, rel, userID, recipeID); err != nil {
		return domain.RecipeMinified{}, err
	}
	return recipe.ToRecipeMinified(target), nil
}

func (s *relationService) removeRecipe(ctx context.Context, rel Relation, userID uint, recipeID uint) error {
	err := s.guard(ctx, rel, userID, recipeID, func(ctx context.Context, id uint) error {
		_, err := s.getRecipe(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	return s.relationRepository.Remove(ctx, rel, userID, recipeID)
}

func (s *relationService) AddFavorite(ctx context.Context, userID uint, recipeID uint) (domain.RecipeMinified, error) {
	return s.addRecipe(ctx, Favorites, userID, recipeID)
}

func (s *relationService) RemoveFavorite(ctx context.Context, userID uint, recipeID uint) error {
	return s.removeRecipe(ctx, Favorites, userID, recipeID)
}

func (s *relationService) AddToShoppingCart(ctx context.Context, userID uint, recipeID uint) (domain.RecipeMinified, error) {
	return s.addRecipe(ctx, ShoppingCart, userID, recipeID)
}

func (s *relationService) RemoveFromShoppingCart(ctx context.Context, userID uint, recipeID uint) error {
	return s.removeRecipe(ctx, ShoppingCart, userID, recipeID)
}

func (s *relationService) Subscribe(ctx context.Context, userID uint, authorID uint, recipesLimit int) (domain.UserWithRecipes, error) {
	var author *entities.User
	err := s.guard(ctx, Subscriptions, userID, authorID, func(ctx context.Context, id uint) error {
		var err error
		author, err = s.getAuthor(ctx, id)
		return err
	})
	if err != nil {
		return domain.UserWithRecipes{}, err
	}

	if err := s.relationRepository.Add(ctx, Subscriptions, userID, authorID); err != nil {
		return domain.UserWithRecipes{}, err
	}

	res, err := s.withRecipes(ctx, []*entities.User{author}, recipesLimit)
	if err != nil {
		return domain.UserWithRecipes{}, err
	}
	return res[0], nil
}

func (s *relationService) Unsubscribe(ctx context.Context, userID uint, authorID uint) error {
	err := s.guard(ctx, Subscriptions, userID, authorID, func(ctx context.Context, id uint) error {
		_, err := s.getAuthor(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	return s.relationRepository.Remove(ctx, Subscriptions, userID, authorID)
}

// withRecipes expands followed authors with their newest recipes and the
// total recipe count. Every author passed in is followed by the caller.
func (s *relationService) withRecipes(ctx context.Context, authors []*entities.User, recipesLimit int) ([]domain.UserWithRecipes, error) {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.relationRepository.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]domain.UserWithRecipes, 0, len(authors))
	for _, a := range authors {
		recipes, err := s.relationRepository.GetRecipesByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}

		minified := make([]domain.RecipeMinified, 0, len(recipes))
		for _, r := range recipes {
			minified = append(minified, recipe.ToRecipeMinified(r))
		}
		res = append(res, domain.UserWithRecipes{
			User:         user.ToUserResponse(a, true),
			Recipes:      minified,
			RecipesCount: counts[a.ID],
		})
	}
	return res, nil
}

func (s *relationService) listRecipes(ctx context.Context, rel Relation, userID uint, p domain.PaginationRequest) (domain.PaginatedResponse[domain.RecipeMinified], error) {
	p = p.Normalize()
	recipes, count, err := s.relationRepository.GetMemberRecipes(ctx, rel, userID, p)
	if err != nil {
		return domain.PaginatedResponse[domain.RecipeMinified]{}, err
	}

	res := make([]domain.RecipeMinified, 0, len(recipes))
	for _, r := range recipes {
		res = append(res, recipe.ToRecipeMinified(r))
	}
	return domain.NewPaginatedResponse(res, count, p), nil
}

func (s *relationService) GetFavorites(ctx context.Context, userID uint, p domain.PaginationRequest) (domain.PaginatedResponse[domain.RecipeMinified], error) {
	return s.listRecipes(ctx, Favorites, userID, p)
}

func (s *relationService) GetShoppingCart(ctx context.Context, userID uint, p domain.PaginationRequest) (domain.PaginatedResponse[domain.RecipeMinified], error) {
	return s.listRecipes(ctx, ShoppingCart, userID, p)
}

func (s *relationService) GetSubscriptions(ctx context.Context, userID uint, req domain.SubscriptionListRequest) (domain.PaginatedResponse[domain.UserWithRecipes], error) {
	p := req.PaginationRequest.Normalize()
	authors, count, err := s.relationRepository.GetSubscribedAuthors(ctx, userID, p)
	if err != nil {
		return domain.PaginatedResponse[domain.UserWithRecipes]{}, err
	}

	res, err := s.withRecipes(ctx, authors, req.RecipesLimit)
	if err != nil {
		return domain.PaginatedResponse[domain.UserWithRecipes]{}, err
	}
	return domain.NewPaginatedResponse(res, count, p), nil
}
