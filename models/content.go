package models

// Category is one of the fixed content sections of the guide.
type Category string

const (
	CategoryFood     Category = "food"
	CategoryCulture  Category = "culture"
	CategoryShopping Category = "shopping"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryFood, CategoryCulture, CategoryShopping}

// ParseCategory validates a raw path or payload value.
func ParseCategory(raw string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}

// ContentItem is a point of interest rendered from one markdown file.
type ContentItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Image        string   `json:"image,omitempty"`
	Audio        string   `json:"audio,omitempty"`
	Address      string   `json:"address,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	OpeningHours string   `json:"opening_hours,omitempty"`
	Website      string   `json:"website,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Content      string   `json:"content"`
	StoryContent string   `json:"story_content,omitempty"`
	Category     Category `json:"category"`
	Story        bool     `json:"story"`
}

// Coordinates returns the item's location when both latitude and longitude are known.
func (c *ContentItem) Coordinates() *Coordinates {
	if c.Latitude == nil || c.Longitude == nil {
		return nil
	}
	return &Coordinates{Latitude: *c.Latitude, Longitude: *c.Longitude}
}
