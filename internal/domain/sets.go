package domain

import "net/url"

// Set is a purchasable LEGO product record from the catalog API.
type Set struct {
	SetNum   string `json:"set_num"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
	ThemeID  int    `json:"theme_id"`
	NumParts int    `json:"num_parts"`
	ImageURL string `json:"set_img_url"`
	SetURL   string `json:"set_url"`

	// ThemeName is derived after fetch and never sent by the API.
	ThemeName string `json:"theme_name,omitempty"`
}

// BrickLinkURL returns a BrickLink marketplace search for this set
func (s Set) BrickLinkURL() string {
	return "https://www.bricklink.com/v2/search.page?q=" + url.QueryEscape(s.SetNum)
}

// Theme is a named series a Set belongs to.
type Theme struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ParentID *int   `json:"parent_id"`
}

// HasParent reports whether the theme names a parent theme
func (t Theme) HasParent() bool {
	return t.ParentID != nil && *t.ParentID != 0
}

// ThemeOption is a theme prepared for a picker: id plus composed label.
type ThemeOption struct {
	ID    int
	Label string
}

// Minifig is a minifigure included in a set.
type Minifig struct {
	SetNum   string `json:"set_num"`
	Name     string `json:"set_name"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"set_img_url"`
}

// Page is the paginated envelope returned by list endpoints.
type Page struct {
	Results  []Set   `json:"results"`
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// HasNext reports whether a following page exists
func (p Page) HasNext() bool { return p.Next != nil && *p.Next != "" }

// HasPrevious reports whether a preceding page exists
func (p Page) HasPrevious() bool { return p.Previous != nil && *p.Previous != "" }

// EmptyPage returns the normalized envelope used when no data is available.
func EmptyPage() Page {
	return Page{Results: []Set{}}
}
