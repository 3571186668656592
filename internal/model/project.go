package model

// Project sizes set how many grid columns a project card spans.
const (
	SizeSmall      = "sm"
	SizeLarge      = "lg"
	SizeExtraLarge = "xl"
)

type Project struct {
	Title            string `yaml:"title" json:"title"`
	ShortDescription string `yaml:"short_description" json:"short_description"`
	LongDescription  string `yaml:"long_description" json:"long_description"`
	Image            string `yaml:"image" json:"image"`
	TimeSpent        string `yaml:"time_spent" json:"time_spent"`
	DocLink          string `yaml:"doc_link,omitempty" json:"doc_link,omitempty"`
	WebLink          string `yaml:"web_link,omitempty" json:"web_link,omitempty"`
	Size             string `yaml:"size" json:"size"`
}

// Span is the number of columns the card covers on the widest grid:
// sm is one, lg two, and anything else the full row of three.
func (p Project) Span() int {
	switch p.Size {
	case SizeSmall:
		return 1
	case SizeLarge:
		return 2
	default:
		return 3
	}
}
