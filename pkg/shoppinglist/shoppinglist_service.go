package shoppinglist

import (
	"context"
	"fmt"
	"strings"

	"Foodgram-Backend/domain"
)

const (
	FileName    = "shopping_list.txt"
	ContentType = "text/plain; charset=utf-8"

	header = "Shopping List:\n\n"
)

type (
	ShoppingListService interface {
		GetItems(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error)
		Download(ctx context.Context, userID uint) (string, error)
	}

	shoppingListService struct {
		shoppingListRepository ShoppingListRepository
	}
)

func NewShoppingListService(shoppingListRepository ShoppingListRepository) ShoppingListService {
	return &shoppingListService{shoppingListRepository: shoppingListRepository}
}

// Render formats aggregated items as the downloadable text document.
func Render(items []domain.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(header)
	for _, item := range items {
		fmt.Fprintf(&b, "- %s - %d %s\n", item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	return b.String()
}

func (s *shoppingListService) GetItems(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error) {
	items, err := s.shoppingListRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ShoppingListItem{}
	}
	return items, nil
}

func (s *shoppingListService) Download(ctx context.Context, userID uint) (string, error) {
	items, err := s.GetItems(ctx, userID)
	if err != nil {
		return "", err
	}
	return Render(items), nil
}
