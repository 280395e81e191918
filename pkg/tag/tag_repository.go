package tag

import (
	"context"

	"Foodgram-Backend/entities"

	"gorm.io/gorm"
)

type (
	TagRepository interface {
		GetTags(ctx context.Context) ([]*entities.Tag, error)
		GetTagByID(ctx context.Context, id uint) (*entities.Tag, error)
		GetExistingTagIDs(ctx context.Context, ids []uint) (map[uint]bool, error)
	}

	tagRepository struct {
		db *gorm.DB
	}
)

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetTagByID(ctx context.Context, id uint) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetExistingTagIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	existing := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	var found []uint
	if err := r.db.WithContext(ctx).
		Model(&entities.Tag{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}
