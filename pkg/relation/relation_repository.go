package relation

import (
	"context"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"

	"gorm.io/gorm"
)

type (
	RelationRepository interface {
		Add(ctx context.Context, rel Relation, userID uint, targetID uint) error
		Remove(ctx context.Context, rel Relation, userID uint, targetID uint) error
		GetRecipe(ctx context.Context, id uint) (*entities.Recipe, error)
		GetAuthor(ctx context.Context, id uint) (*entities.User, error)
		GetMemberRecipes(ctx context.Context, rel Relation, userID uint, p domain.PaginationRequest) ([]*entities.Recipe, int64, error)
		GetSubscribedAuthors(ctx context.Context, userID uint, p domain.PaginationRequest) ([]*entities.User, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

// Add inserts the membership row and lets the composite unique index decide
// races; a duplicate becomes rel.ErrExists.
func (r *relationRepository) Add(ctx context.Context, rel Relation, userID uint, targetID uint) error {
	if err := r.db.WithContext(ctx).Create(rel.NewRow(userID, targetID)).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			return rel.ErrExists
		}
		return err
	}
	return nil
}

func (r *relationRepository) Remove(ctx context.Context, rel Relation, userID uint, targetID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND "+rel.TargetColumn+" = ?", userID, targetID).
		Delete(rel.Model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return rel.ErrMissing
	}
	return nil
}

func (r *relationRepository) GetRecipe(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *relationRepository) GetAuthor(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMemberRecipes lists the recipes a user has in a recipe relation, most
// recently added first.
func (r *relationRepository) GetMemberRecipes(ctx context.Context, rel Relation, userID uint, p domain.PaginationRequest) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	query := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Joins("JOIN "+rel.Table+" ON "+rel.Table+".recipe_id = recipes.id").
		Where(rel.Table+".user_id = ?", userID).
		Session(&gorm.Session{})

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Select("recipes.*").
		Order(rel.Table + ".id desc").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

func (r *relationRepository) GetSubscribedAuthors(ctx context.Context, userID uint, p domain.PaginationRequest) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64

	query := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Session(&gorm.Session{})

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Select("users.*").
		Order("users.username asc").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

// GetRecipesByAuthor returns the newest recipes of an author. limit <= 0
// returns all of them.
func (r *relationRepository) GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe

	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *relationRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}
