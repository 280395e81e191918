package user

import (
	"context"
	"errors"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	to      string
	subject string
}

func newService(t *testing.T) (UserService, *gorm.DB, *testutil.FakeStorage, *[]sentMail) {
	t.Helper()
	utils.SetConfig("JWT_SECRET", "test-secret")

	db := testutil.NewDB(t)
	s3 := testutil.NewFakeStorage()
	mails := &[]sentMail{}
	sender := func(to, subject, body string) error {
		*mails = append(*mails, sentMail{to: to, subject: subject})
		return nil
	}

	jwtService := jwt.NewJWTService(jwt.NewJWTRepository(db))
	return NewUserServiceWithMailer(NewUserRepository(db), jwtService, s3, sender), db, s3, mails
}

func registerRequest(username string) domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "long-enough",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	service, _, _, mails := newService(t)
	ctx := context.Background()

	res, err := service.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)
	assert.NotZero(t, res.ID)
	require.Len(t, *mails, 1)
	assert.Equal(t, "alice@example.com", (*mails)[0].to)

	token, err := service.Login(ctx, domain.LoginRequest{Email: "ALICE@example.com", Password: "long-enough"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AuthToken)

	_, err = service.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "long-enough"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterDuplicates(t *testing.T) {
	service, _, _, _ := newService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	sameEmail := registerRequest("alice2")
	sameEmail.Email = "alice@example.com"
	_, err = service.Register(ctx, sameEmail)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{domain.ErrEmailAlreadyUsed.Error()}, verr.Fields["email"])

	sameUsername := registerRequest("alice")
	sameUsername.Email = "other@example.com"
	_, err = service.Register(ctx, sameUsername)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	utils.SetConfig("JWT_SECRET", "test-secret")
	db := testutil.NewDB(t)
	jwtService := jwt.NewJWTService(jwt.NewJWTRepository(db))
	failing := func(string, string, string) error { return errors.New("smtp down") }
	service := NewUserServiceWithMailer(NewUserRepository(db), jwtService, testutil.NewFakeStorage(), failing)

	_, err := service.Register(context.Background(), registerRequest("alice"))
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	service, db, _, _ := newService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")

	err := service.ChangePassword(ctx, user.ID, domain.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new-pass"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "current_password")

	require.NoError(t, service.ChangePassword(ctx, user.ID, domain.SetPasswordRequest{
		CurrentPassword: testutil.Password,
		NewPassword:     "brand-new-pass",
	}))

	_, err = service.Login(ctx, domain.LoginRequest{Email: user.Email, Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestUpdateUser(t *testing.T) {
	service, db, _, _ := newService(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreateUser(t, db, "bob")

	res, err := service.UpdateUser(ctx, alice.ID, domain.UpdateUserRequest{FirstName: "Alicia"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", res.FirstName)
	assert.Equal(t, "alice", res.Username)

	_, err = service.UpdateUser(ctx, alice.ID, domain.UpdateUserRequest{Username: "bob"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
}

func TestAvatar(t *testing.T) {
	service, db, s3, _ := newService(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")

	_, err := service.SetAvatar(ctx, alice.ID, domain.SetAvatarRequest{Avatar: "not a data uri"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "avatar")

	first, err := service.SetAvatar(ctx, alice.ID, domain.SetAvatarRequest{Avatar: testutil.PNG})
	require.NoError(t, err)
	assert.NotEmpty(t, first.Avatar)

	second, err := service.SetAvatar(ctx, alice.ID, domain.SetAvatarRequest{Avatar: testutil.PNG})
	require.NoError(t, err)
	assert.NotEqual(t, first.Avatar, second.Avatar)
	assert.Equal(t, 1, s3.Count())

	require.NoError(t, service.DeleteAvatar(ctx, alice.ID))
	assert.Zero(t, s3.Count())

	me, err := service.GetUser(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, me.Avatar)
}

func TestGetUsersSubscriptionFlag(t *testing.T) {
	service, db, _, _ := newService(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	require.NoError(t, db.Create(&entities.Subscription{UserID: bob.ID, AuthorID: alice.ID}).Error)

	res, err := service.GetUsers(ctx, domain.PaginationRequest{}, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Count)
	require.Len(t, res.Results, 2)
	assert.True(t, res.Results[0].IsSubscribed)
	assert.False(t, res.Results[1].IsSubscribed)

	anonymous, err := service.GetUser(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.False(t, anonymous.IsSubscribed)

	_, err = service.GetUser(ctx, 999, 0)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	service, db, _, _ := newService(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	flour := testutil.CreateIngredient(t, db, "flour", "g")
	dinner := testutil.CreateTag(t, db, "Dinner")

	own := testutil.CreateRecipe(t, db, alice, "Bread", 90, []*entities.Tag{dinner},
		testutil.Amount{Ingredient: flour, Amount: 100})
	bobs := testutil.CreateRecipe(t, db, bob, "Soup", 30, nil)

	require.NoError(t, db.Create(&entities.Favorite{UserID: bob.ID, RecipeID: own.ID}).Error)
	require.NoError(t, db.Create(&entities.Favorite{UserID: alice.ID, RecipeID: bobs.ID}).Error)
	require.NoError(t, db.Create(&entities.ShoppingCartItem{UserID: alice.ID, RecipeID: bobs.ID}).Error)
	require.NoError(t, db.Create(&entities.Subscription{UserID: bob.ID, AuthorID: alice.ID}).Error)
	require.NoError(t, db.Create(&entities.Subscription{UserID: alice.ID, AuthorID: bob.ID}).Error)

	require.NoError(t, service.DeleteUser(ctx, alice.ID))

	counts := map[string]int64{}
	for name, model := range map[string]any{
		"recipes":       &entities.Recipe{},
		"joins":         &entities.RecipeIngredient{},
		"tags":          &entities.RecipeTag{},
		"favorites":     &entities.Favorite{},
		"cart":          &entities.ShoppingCartItem{},
		"subscriptions": &entities.Subscription{},
		"users":         &entities.User{},
	} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		counts[name] = n
	}
	assert.Equal(t, map[string]int64{
		"recipes":       1,
		"joins":         0,
		"tags":          0,
		"favorites":     0,
		"cart":          0,
		"subscriptions": 0,
		"users":         1,
	}, counts)

	assert.ErrorIs(t, service.DeleteUser(ctx, alice.ID), domain.ErrUserNotFound)
}
