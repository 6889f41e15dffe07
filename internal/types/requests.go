package types

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=150"`
}

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetPasswordRequest changes the caller's password
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,max=150"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// TagRequest creates a tag
type TagRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"required,tagcolor"`
	Slug  string `json:"slug" binding:"required,max=200,slug"`
}

// IngredientAmount is one ingredient line of a recipe write.
type IngredientAmount struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required,amount"`
}

// RecipeRequest is the body of recipe create and update. Image is a base64
// data URI; it may be omitted on update to keep the current image.
type RecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []uint             `json:"tags" binding:"required,min=1"`
	Image       string             `json:"image"`
	Name        string             `json:"name" binding:"required,max=200"`
	Text        string             `json:"text" binding:"required,max=1000"`
	CookingTime int                `json:"cooking_time" binding:"required,cookingtime"`
}

// RecipeFilter narrows recipe listings. Nil booleans mean "don't filter".
type RecipeFilter struct {
	TagSlugs         []string
	AuthorIDs        []uint
	IsFavorited      *bool
	IsInShoppingCart *bool
}

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Page selects a window of a listing; Page is 1-based.
type Page struct {
	Page  int
	Limit int
}

// Size returns Limit clamped to [1, MaxPageSize], or DefaultPageSize when unset.
func (p Page) Size() int {
	switch {
	case p.Limit <= 0:
		return DefaultPageSize
	case p.Limit > MaxPageSize:
		return MaxPageSize
	default:
		return p.Limit
	}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Size()
}
