// Package category suggests a shopping list category for an item name.
package category

import "strings"

const (
	Main      = "Main"
	Snack     = "Snack"
	Lunch     = "Lunch"
	Breakfast = "Breakfast"
)

// All lists the categories in the order they are offered to users.
var All = []string{Main, Snack, Lunch, Breakfast}

// Suggest returns the category for the given item name. Matching is
// case-insensitive: exact match first, then substring match. Falls back to Main.
func Suggest(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return Main
	}

	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return Main
}

// Valid reports whether s names a known category, ignoring case.
func Valid(s string) bool {
	for _, c := range All {
		if strings.EqualFold(c, s) {
			return true
		}
	}
	return false
}

var exactMatch = map[string]string{
	"coffee":       Breakfast,
	"cereal":       Breakfast,
	"eggs":         Breakfast,
	"bacon":        Breakfast,
	"bagels":       Breakfast,
	"oatmeal":      Breakfast,
	"yogurt":       Breakfast,
	"orange juice": Breakfast,
	"maple syrup":  Breakfast,

	"bread":     Lunch,
	"ham":       Lunch,
	"turkey":    Lunch,
	"cheese":    Lunch,
	"tortillas": Lunch,
	"apples":    Lunch,
	"soup":      Lunch,
	"hummus":    Lunch,

	"mango":        Snack,
	"chips":        Snack,
	"cookies":      Snack,
	"crackers":     Snack,
	"popcorn":      Snack,
	"pretzels":     Snack,
	"almonds":      Snack,
	"trail mix":    Snack,
	"granola bars": Snack,
}

type substringEntry struct {
	keyword  string
	category string
}

// Ordered with longer/more-specific keywords first.
var substringMatches = []substringEntry{
	{"granola bar", Snack},
	{"trail mix", Snack},
	{"pancake", Breakfast},
	{"waffle", Breakfast},
	{"cereal", Breakfast},
	{"coffee", Breakfast},
	{"oatmeal", Breakfast},
	{"bagel", Breakfast},
	{"muffin", Breakfast},
	{"sandwich", Lunch},
	{"deli", Lunch},
	{"salad", Lunch},
	{"soup", Lunch},
	{"bread", Lunch},
	{"lunch", Lunch},
	{"chip", Snack},
	{"cookie", Snack},
	{"cracker", Snack},
	{"popcorn", Snack},
	{"pretzel", Snack},
	{"candy", Snack},
	{"chocolate", Snack},
	{"snack", Snack},
}
