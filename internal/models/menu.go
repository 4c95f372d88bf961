package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is one of the three fixed menu partitions
type Category string

const (
	Starters Category = "Starters"
	MainMenu Category = "Main Menu"
	Desserts Category = "Desserts"
)

// Categories lists the menu partitions in display order
var Categories = []Category{Starters, MainMenu, Desserts}

// ParseCategory accepts the display label of a category
func ParseCategory(s string) (Category, error) {
	switch Category(strings.TrimSpace(s)) {
	case Starters:
		return Starters, nil
	case MainMenu:
		return MainMenu, nil
	case Desserts:
		return Desserts, nil
	default:
		return "", fmt.Errorf("category must be one of: Starters, Main Menu, Desserts")
	}
}

// MenuItem represents a sellable dish
type MenuItem struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    Category        `json:"category" db:"category"`
	Image       string          `json:"image,omitempty" db:"image"`
}

// PriceScale is the number of decimal places a price is stored with
const PriceScale = 2

// MealDetails is a chef submission for a new menu item
type MealDetails struct {
	Category    Category        `json:"category"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
}

// NewMealDetails builds a submission from raw form values. Only the category
// and the price text are checked; name and description are taken as given.
func NewMealDetails(category, name, description, price, image string) (MealDetails, error) {
	cat, err := ParseCategory(category)
	if err != nil {
		return MealDetails{}, err
	}

	amount := decimal.Zero
	if p := strings.TrimSpace(price); p != "" {
		amount, err = decimal.NewFromString(p)
		if err != nil {
			return MealDetails{}, fmt.Errorf("price must be a number")
		}
	}
	if amount.IsNegative() {
		return MealDetails{}, fmt.Errorf("price must not be negative")
	}
	// menu_items.price keeps cents only
	amount = amount.Round(PriceScale)

	return MealDetails{
		Category:    cat,
		Name:        name,
		Description: description,
		Price:       amount,
		Image:       image,
	}, nil
}

// MenuItem converts the submission into a menu item with the given id
func (d MealDetails) MenuItem(id string) MenuItem {
	return MenuItem{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Image:       d.Image,
	}
}

// DefaultMenu returns the dishes the restaurant opens with
func DefaultMenu() []MealDetails {
	return []MealDetails{
		{Starters, "Smoked Salmon Carpaccio", "Delicate slices of smoked salmon with a lemon-dill dressing.", decimal.NewFromInt(85), "salmon.jpg"},
		{Starters, "Stuffed Portobello Mushrooms", "Large mushrooms stuffed with goat cheese and herbs.", decimal.NewFromInt(70), "Vegetable-Stuffed-Portabella-Mushrooms-4-720x1080.jpg"},
		{Starters, "Butternut Squash Soup", "Creamy roasted butternut squash soup with crispy croutons.", decimal.NewFromInt(60), "Creamy-Butternut-Squash-Soup-Recipe-Plated-Cravings-3.jpg"},
		{MainMenu, "Lamb Kofta with tzatziki", "Succulent lamb skewers with creamy tzatziki.", decimal.NewFromInt(240), "VEGAN.jpg"},
		{MainMenu, "Lemon-herb couscous", "A light and zesty couscous dish with fresh herbs and pomegranate.", decimal.NewFromInt(190), "Easy-Couscous.jpg"},
		{MainMenu, "Grilled Branzino", "A whole grilled branzino served with lemon-garlic sauce.", decimal.NewFromInt(180), "LEMON.jpg"},
		{Desserts, "Malva Pudding", "Traditional South African dessert served with custard.", decimal.NewFromInt(60), "BD-Malva-Pudding-095.jpg"},
		{Desserts, "Chocolate Fondant", "Molten chocolate cake with vanilla ice cream.", decimal.NewFromInt(75), "Chocolate-fondants-115-500x500.jpg"},
		{Desserts, "Lemon Cheesecake", "Zesty lemon cheesecake on a biscuit base.", decimal.NewFromInt(65), "Lemon-Dream-Cheesecake_EXPS_FT24_93312_0329_JR_1.jpg"},
	}
}

// MenuOverview is the chef's read-only view of the current menu
type MenuOverview struct {
	TotalItems int        `json:"total_items"`
	Items      []MenuItem `json:"items"`
}
