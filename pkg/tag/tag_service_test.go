package tag

import (
	"context"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags(t *testing.T) {
	db := testutil.NewDB(t)
	lunch := testutil.CreateTag(t, db, "Late Lunch")
	testutil.CreateTag(t, db, "Breakfast")
	svc := NewTagService(NewTagRepository(db))
	ctx := context.Background()

	tags, err := svc.GetTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	res, err := svc.GetTag(ctx, lunch.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Tag{ID: lunch.ID, Name: "Late Lunch", Slug: "late-lunch"}, res)

	_, err = svc.GetTag(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	existing, err := NewTagRepository(db).GetExistingTagIDs(ctx, []uint{lunch.ID, 404})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{lunch.ID: true}, existing)
}
