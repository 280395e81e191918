package entities

import "time"

type Recipe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
	Name        string `gorm:"size:256;not null" json:"name"`
	Image       string `json:"image"`
	Text        string `gorm:"type:text;not null" json:"text"`
	CookingTime int    `gorm:"not null" json:"cooking_time"`

	Author            *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	RecipeIngredients []*RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe_ingredients,omitempty"`
	RecipeTags        []*RecipeTag        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe_tags,omitempty"`
	Timestamp
}

type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int  `gorm:"not null" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

type RecipeTag struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_recipe_tag" json:"recipe_id"`
	TagID    uint `gorm:"not null;uniqueIndex:idx_recipe_tag" json:"tag_id"`

	Tag *Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"tag,omitempty"`
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

type ShoppingCartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}
