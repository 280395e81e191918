package entities_test

import (
	"testing"

	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Breakfast", "breakfast"},
		{"  Late   Lunch ", "late-lunch"},
		{"Snack & Drinks!", "snack-drinks"},
		{"Завтрак", "завтрак"},
		{"Обед на двоих", "обед-на-двоих"},
		{"Café 24/7", "café-247"},
		{"--_ ?? _--", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, entities.Slugify(tt.in), tt.in)
	}
}

func TestTagSlugOnSave(t *testing.T) {
	db := testutil.NewDB(t)

	breakfast := testutil.CreateTag(t, db, "Завтрак")
	dinner := testutil.CreateTag(t, db, "Ужин")
	assert.Equal(t, "завтрак", breakfast.Slug)
	assert.Equal(t, "ужин", dinner.Slug)

	err := db.Create(&entities.Tag{Name: "???"}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrEmptySlug)
}
