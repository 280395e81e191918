// Package testutil holds fixtures shared by package tests: an in-memory
// sqlite database with the full schema, row factories and a fake object
// store.
package testutil

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"testing"

	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/storage"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const Password = "s3cret-pass"

// PNG is a data URI small enough to inline in request bodies.
var PNG = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nfake"))

// NewDB returns a private in-memory database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Tester",
		Password:  string(hashed),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, name string) *entities.Tag {
	t.Helper()

	tag := &entities.Tag{Name: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()

	ingredient := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// Amount pairs an ingredient with a quantity for CreateRecipe.
type Amount struct {
	Ingredient *entities.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with its join rows directly, bypassing
// validation.
func CreateRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string, cookingTime int, tags []*entities.Tag, amounts ...Amount) *entities.Recipe {
	t.Helper()

	recipe := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "http://storage.test/recipes/" + entities.Slugify(name) + ".png",
		Text:        name + " text",
		CookingTime: cookingTime,
	}
	require.NoError(t, db.Omit("Author", "RecipeIngredients", "RecipeTags").Create(recipe).Error)

	for _, a := range amounts {
		require.NoError(t, db.Create(&entities.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: a.Ingredient.ID,
			Amount:       a.Amount,
		}).Error)
	}
	for _, tag := range tags {
		require.NoError(t, db.Create(&entities.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error)
	}
	return recipe
}

// FakeStorage is an in-memory storage.AwsS3.
type FakeStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
}

var _ storage.AwsS3 = (*FakeStorage)(nil)

const fakeStorageURL = "http://storage.test"

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{Objects: map[string][]byte{}}
}

func (f *FakeStorage) UploadBase64(_ context.Context, name string, dataURI string, folder string, allowed ...string) (string, error) {
	contentType, data, err := storage.DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	if len(allowed) > 0 {
		ok := false
		for _, a := range allowed {
			ok = ok || a == contentType
		}
		if !ok {
			return "", fmt.Errorf("%w: %s", storage.ErrContentTypeDenied, contentType)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s/%s-%d", folder, name, len(f.Objects)+len(f.Deleted)+1)
	f.Objects[key] = data
	return key, nil
}

func (f *FakeStorage) DeleteFile(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, objectKey)
	f.Deleted = append(f.Deleted, objectKey)
	return nil
}

func (f *FakeStorage) GetPublicLinkKey(objectKey string) string {
	return fakeStorageURL + "/" + objectKey
}

func (f *FakeStorage) ObjectKeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, fakeStorageURL+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, fakeStorageURL+"/"), true
}

func (f *FakeStorage) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Objects)
}
