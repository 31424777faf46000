package core

import (
	"math/rand/v2"
	"strings"
)

// Category is the closed classification set for spending purposes.
type Category string

const (
	CategoryBills         Category = "Bills"
	CategoryEntertainment Category = "Entertainment"
	CategoryFood          Category = "Food"
	CategoryShopping      Category = "Shopping"
	CategoryFuel          Category = "Fuel"
	CategoryGroceries     Category = "Groceries"
	CategoryHealth        Category = "Health"
	CategoryOffice        Category = "Office"
	CategoryTravel        Category = "Travel"
	CategoryTransfer      Category = "Transfer"
	CategoryOther         Category = "Other"
)

// Categories returns the full set in display order.
func Categories() []Category {
	return []Category{
		CategoryBills,
		CategoryEntertainment,
		CategoryFood,
		CategoryShopping,
		CategoryFuel,
		CategoryGroceries,
		CategoryHealth,
		CategoryOffice,
		CategoryTravel,
		CategoryTransfer,
		CategoryOther,
	}
}

func (c Category) Valid() bool {
	_, ok := categoryVisuals[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory maps a free-form label onto the closed set, case-insensitively.
// Unknown labels fall back to Other.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return CategoryOther
}

// Visual is the fixed presentation config for a category.
type Visual struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// categoryVisuals maps every category to its presentation config. Keep this
// exhaustive: Valid() uses it as the membership check.
var categoryVisuals = map[Category]Visual{
	CategoryBills:         {Color: "#f59e0b", Icon: "receipt"},
	CategoryEntertainment: {Color: "#8b5cf6", Icon: "clapperboard"},
	CategoryFood:          {Color: "#ef4444", Icon: "utensils"},
	CategoryShopping:      {Color: "#ec4899", Icon: "shopping-bag"},
	CategoryFuel:          {Color: "#f97316", Icon: "fuel"},
	CategoryGroceries:     {Color: "#22c55e", Icon: "shopping-cart"},
	CategoryHealth:        {Color: "#14b8a6", Icon: "heart-pulse"},
	CategoryOffice:        {Color: "#64748b", Icon: "briefcase"},
	CategoryTravel:        {Color: "#0ea5e9", Icon: "plane"},
	CategoryTransfer:      {Color: "#6366f1", Icon: "arrow-left-right"},
	CategoryOther:         {Color: "#9ca3af", Icon: "circle-ellipsis"},
}

func (c Category) Visual() Visual {
	return categoryVisuals[c]
}

// Gradients is the fixed palette new cards draw from. Stored on the card so
// edits keep the original pick.
var Gradients = []string{
	"sunset",
	"ocean",
	"forest",
	"aurora",
	"ember",
	"violet",
	"midnight",
	"rose",
}

// RandomGradient picks a gradient for a new card.
func RandomGradient() string {
	return Gradients[rand.IntN(len(Gradients))]
}
