package user

import (
	"context"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uint) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		IsEmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
		IsUsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
		UpdateUser(ctx context.Context, user *entities.User) error
		GetUsers(ctx context.Context, p domain.PaginationRequest) ([]*entities.User, int64, error)
		DeleteUser(ctx context.Context, id uint) error
		GetSubscribedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) IsEmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("LOWER(email) = ? AND id <> ?", strings.ToLower(email), excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) IsUsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) GetUsers(ctx context.Context, p domain.PaginationRequest) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64

	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("username asc").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

// DeleteUser removes the user and everything hanging off them in one
// transaction. The FK constraints cascade too; deleting explicitly keeps the
// behavior identical on drivers where constraints are off.
func (r *userRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownRecipes := tx.Model(&entities.Recipe{}).Select("id").Where("author_id = ?", id)

		for _, model := range []any{
			&entities.RecipeIngredient{},
			&entities.RecipeTag{},
			&entities.Favorite{},
			&entities.ShoppingCartItem{},
		} {
			if err := tx.Where("recipe_id IN (?)", ownRecipes).Delete(model).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("author_id = ?", id).Delete(&entities.Recipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&entities.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.ShoppingCartItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&entities.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *userRepository) GetSubscribedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	subscribed := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return subscribed, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}
