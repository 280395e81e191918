package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/api/routes"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/shoppinglist"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	if utils.GetConfig("JWT_SECRET") == "" {
		return nil, jwt.ErrMissingSecret
	}

	// setting up access log
	logFile := utils.GetConfig("LOG_FILE")
	if err := os.MkdirAll(filepath.Dir(logFile), os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		logFile,
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("opening access log: %w", err)
	}

	return BuildApp(db, storage.NewAwsS3(), file), nil
}

// BuildApp wires repositories, services and handlers on top of db. Object
// storage and the access log destination are passed in so tests can swap
// them.
func BuildApp(db *gorm.DB, s3 storage.AwsS3, accessLog io.Writer) *fiber.App {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     accessLog,
	}))

	if rateLimit, _ := strconv.Atoi(utils.GetConfig("RATE_LIMIT_MAX")); rateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        rateLimit,
			Expiration: 1 * time.Second,
		}))
	}

	// Repository
	jwtRepository := jwt.NewJWTRepository(db)
	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	relationRepository := relation.NewRelationRepository(db)
	shoppingListRepository := shoppinglist.NewShoppingListRepository(db)

	// Service
	jwtService := jwt.NewJWTService(jwtRepository)
	userService := user.NewUserService(userRepository, jwtService, s3)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, tagRepository, ingredientRepository, userRepository, s3)
	relationService := relation.NewRelationService(relationRepository)
	shoppingListService := shoppinglist.NewShoppingListService(shoppingListRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	catalogHandler := handlers.NewCatalogHandler(tagService, ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, shoppingListService, validator)
	relationHandler := handlers.NewRelationHandler(relationService)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		CatalogHandler:  catalogHandler,
		RecipeHandler:   recipeHandler,
		RelationHandler: relationHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app
}

// errorHandler keeps the response envelope for errors raised by fiber
// itself, such as unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code == fiber.StatusNotFound {
		return presenters.ErrorResponse(c, code, domain.MessageFailedNotFound, err)
	}
	return presenters.ErrorResponse(c, code, domain.MessageFailedProcessRequest, err)
}
