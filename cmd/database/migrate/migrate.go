package migration

import (
	"fmt"
	"log"

	"Foodgram-Backend/entities"

	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.RevokedToken{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.RecipeTag{},
		&entities.Favorite{},
		&entities.ShoppingCartItem{},
		&entities.Subscription{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("error migrating %T: %w", model, err)
		}
	}

	log.Println("Database migration complete")
	return nil
}
