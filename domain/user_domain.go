package domain

import "errors"

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "token obtained successfully"
	MessageSuccessLogout         = "token revoked successfully"
	MessageSuccessGetUser        = "success get user"
	MessageSuccessGetUsers       = "success get users"
	MessageSuccessUpdateUser     = "user updated successfully"
	MessageSuccessSetAvatar      = "avatar updated successfully"
	MessageSuccessChangePassword = "password changed successfully"

	MessageFailedRegister       = "failed to register user"
	MessageFailedLogin          = "failed to obtain token"
	MessageFailedLogout         = "failed to revoke token"
	MessageFailedGetUser        = "failed to get user"
	MessageFailedGetUsers       = "failed to get users"
	MessageFailedUpdateUser     = "failed to update user"
	MessageFailedDeleteUser     = "failed to delete user"
	MessageFailedSetAvatar      = "failed to set avatar"
	MessageFailedDeleteAvatar   = "failed to delete avatar"
	MessageFailedChangePassword = "failed to change password"

	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyUsed    = errors.New("a user with that email already exists")
	ErrUsernameAlreadyUsed = errors.New("a user with that username already exists")
	ErrInvalidCredentials  = errors.New("unable to log in with provided credentials")
	ErrWrongPassword       = errors.New("wrong password")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=128"`
	}

	RegisterResponse struct {
		ID        uint   `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	UpdateUserRequest struct {
		Email     string `json:"email" validate:"omitempty,email,max=254"`
		Username  string `json:"username" validate:"omitempty,max=150,username"`
		FirstName string `json:"first_name" validate:"omitempty,max=150"`
		LastName  string `json:"last_name" validate:"omitempty,max=150"`
	}

	SetAvatarRequest struct {
		Avatar string `json:"avatar" validate:"required"`
	}

	SetAvatarResponse struct {
		Avatar string `json:"avatar"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	}

	User struct {
		ID           uint   `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
		Avatar       string `json:"avatar"`
	}

	UserWithRecipes struct {
		User
		Recipes      []RecipeMinified `json:"recipes"`
		RecipesCount int64            `json:"recipes_count"`
	}
)
