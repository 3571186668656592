package model

type Place struct {
	ID          int       `yaml:"id" json:"id"`
	Coordinates []float64 `yaml:"coordinates" json:"coordinates"`
	Title       string    `yaml:"title" json:"title"`
	Date        string    `yaml:"date" json:"date"`
	Description string    `yaml:"description" json:"description"`
	Images      []Image   `yaml:"images" json:"images"`
	Icon        Icon      `yaml:"icon" json:"icon"`
}

type Image struct {
	Src     string `yaml:"src" json:"src"`
	Caption string `yaml:"caption,omitempty" json:"caption,omitempty"`
	Color   string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Icon names a marker glyph for the map layer; rendering happens client side.
type Icon struct {
	Name  string `yaml:"name" json:"name"`
	Size  int    `yaml:"size" json:"size"`
	Color string `yaml:"color" json:"color"`
}
