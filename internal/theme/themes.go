// Package theme implements the rotating weekly theme schedule.
//
// Themes are code-defined and rotate deterministically over a fixed-length
// cycle anchored to a constant start date. Which theme is active is a pure
// function of wall-clock time; no schedule state is persisted anywhere.
package theme

import (
	"time"
)

// Impact holds free-form display strings about a theme's environmental
// impact.
type Impact struct {
	CO2Saved     string `json:"co2_saved"`
	WasteReduced string `json:"waste_reduced"`
	Description  string `json:"description"`
}

// Theme is a time-boxed category highlighted during a calendar window.
type Theme struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Impact       Impact `json:"impact"`
	Color        string `json:"color"`
	DurationDays int    `json:"duration_days"`
}

// anchorDate is the immutable start of the rotation, a Monday.
var anchorDate = time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)

// Themes is the ordered rotation. The cycle length is the sum of all
// durations.
var Themes = []Theme{
	{
		ID:          "1",
		Name:        "Electronics & Gadgets",
		Category:    "electronics",
		Description: "Swap your electronic devices and discover new gadgets. Smartphones, tablets, laptops and accessories.",
		Icon:        "Laptop",
		Impact: Impact{
			CO2Saved:     "45kg per device",
			WasteReduced: "2.3T of electronic waste",
			Description:  "Producing a smartphone emits around 85kg of CO2. Exchanging instead of buying new avoids that footprint.",
		},
		Color:        "blue",
		DurationDays: 7,
	},
	{
		ID:          "2",
		Name:        "Fashion & Clothing",
		Category:    "clothing",
		Description: "Refresh your wardrobe responsibly. Clothes, shoes and accessories for every style.",
		Icon:        "Shirt",
		Impact: Impact{
			CO2Saved:     "3kg per garment",
			WasteReduced: "1.8T of textiles",
			Description:  "The fashion industry accounts for 10% of global CO2 emissions. Exchanging extends garment life and cuts production demand.",
		},
		Color:        "pink",
		DurationDays: 7,
	},
	{
		ID:          "3",
		Name:        "Books & Culture",
		Category:    "books",
		Description: "Share your reads and discover new stories. Novels, comics, technical books and magazines.",
		Icon:        "Book",
		Impact: Impact{
			CO2Saved:     "1.5kg per book",
			WasteReduced: "500kg of paper",
			Description:  "Producing a new book takes around 7.5kg of CO2. Exchanging books shares culture while sparing forests.",
		},
		Color:        "amber",
		DurationDays: 7,
	},
	{
		ID:          "4",
		Name:        "Furniture & Decor",
		Category:    "furniture",
		Description: "Transform your home with second-hand furniture. Tables, chairs, lamps and decorative objects.",
		Icon:        "Sofa",
		Impact: Impact{
			CO2Saved:     "150kg per piece",
			WasteReduced: "3.5T of waste",
			Description:  "Furniture makes up a large share of landfill. Exchanging rather than discarding extends its life and saves resources.",
		},
		Color:        "purple",
		DurationDays: 7,
	},
	{
		ID:          "5",
		Name:        "Sports & Leisure",
		Category:    "sports",
		Description: "Sports equipment and creative hobbies. Bikes, camping gear, musical instruments and more.",
		Icon:        "Bike",
		Impact: Impact{
			CO2Saved:     "25kg per item",
			WasteReduced: "800kg of gear",
			Description:  "Sports gear is often barely used. Exchanging it lets others enjoy it without producing new objects.",
		},
		Color:        "green",
		DurationDays: 7,
	},
}

// ByID returns the theme with the given identifier, or nil.
func ByID(id string) *Theme {
	for i := range Themes {
		if Themes[i].ID == id {
			return &Themes[i]
		}
	}
	return nil
}

// CycleLength returns the total rotation length in days.
func CycleLength() int {
	total := 0
	for _, t := range Themes {
		total += t.DurationDays
	}
	return total
}
