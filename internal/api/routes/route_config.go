package routes

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	CatalogHandler  handlers.CatalogHandler
	RecipeHandler   handlers.RecipeHandler
	RelationHandler handlers.RelationHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Catalog()
	c.Recipe()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(ctx *fiber.Ctx) error {
		return presenters.SuccessResponse(ctx, nil, fiber.StatusOK, domain.MessageSuccessPing)
	})
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth/token")
	{
		auth.Post("/login", c.UserHandler.Login)
		auth.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
	}
}

func (c *Config) User() {
	required := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	user := c.App.Group("/api/users")
	// static paths first so they are not taken for an :id
	{
		user.Post("", c.UserHandler.Register)
		user.Get("", optional, c.UserHandler.GetUsers)
		user.Get("/me", required, c.UserHandler.Me)
		user.Patch("/me", required, c.UserHandler.UpdateMe)
		user.Delete("/me", required, c.UserHandler.DeleteMe)
		user.Put("/me/avatar", required, c.UserHandler.SetAvatar)
		user.Delete("/me/avatar", required, c.UserHandler.DeleteAvatar)
		user.Post("/set_password", required, c.UserHandler.SetPassword)
		user.Get("/subscriptions", required, c.RelationHandler.GetSubscriptions)
		user.Get("/:id", optional, c.UserHandler.GetUser)
		user.Post("/:id/subscribe", required, c.RelationHandler.Subscribe)
		user.Delete("/:id/subscribe", required, c.RelationHandler.Unsubscribe)
	}
}

func (c *Config) Catalog() {
	tags := c.App.Group("/api/tags")
	tags.Get("", c.CatalogHandler.GetTags)
	tags.Get("/:id", c.CatalogHandler.GetTag)

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("", c.CatalogHandler.GetIngredients)
	ingredients.Get("/:id", c.CatalogHandler.GetIngredient)
}

func (c *Config) Recipe() {
	required := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	recipes := c.App.Group("/api/recipes")
	{
		recipes.Get("", optional, c.RecipeHandler.GetRecipes)
		recipes.Post("", required, c.RecipeHandler.CreateRecipe)
		recipes.Get("/favorites", required, c.RelationHandler.GetFavorites)
		recipes.Get("/shopping_cart", required, c.RelationHandler.GetShoppingCart)
		recipes.Get("/download_shopping_cart", required, c.RecipeHandler.DownloadShoppingCart)
		recipes.Get("/:id", optional, c.RecipeHandler.GetRecipe)
		recipes.Put("/:id", required, c.RecipeHandler.UpdateRecipe)
		recipes.Patch("/:id", required, c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", required, c.RecipeHandler.DeleteRecipe)
		recipes.Get("/:id/get-link", c.RecipeHandler.GetShortLink)
		recipes.Post("/:id/favorite", required, c.RelationHandler.AddFavorite)
		recipes.Delete("/:id/favorite", required, c.RelationHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart", required, c.RelationHandler.AddToShoppingCart)
		recipes.Delete("/:id/shopping_cart", required, c.RelationHandler.RemoveFromShoppingCart)
	}
}
