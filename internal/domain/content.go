package domain

type ContentType string

const (
	ContentStructured  ContentType = "structured"
	ContentMarkup      ContentType = "markup"
	ContentPlaceholder ContentType = "placeholder"
)

const (
	PlaceholderUnderDevelopment       = "under_development"
	PlaceholderTemporarilyUnavailable = "temporarily_unavailable"
)

// Content is what the reader sees for the active node. Exactly one of Text
// (markup), Value (structured) or Placeholder is meaningful, selected by Type.
type Content struct {
	Type        ContentType `json:"type"`
	Title       string      `json:"title,omitempty"`
	Text        string      `json:"text,omitempty"`
	Value       any         `json:"value,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
}

func UnderDevelopment(title string) Content {
	return Content{
		Type:        ContentPlaceholder,
		Title:       title,
		Text:        "Content under development",
		Placeholder: PlaceholderUnderDevelopment,
	}
}

func TemporarilyUnavailable(title string) Content {
	return Content{
		Type:        ContentPlaceholder,
		Title:       title,
		Text:        "Content temporarily unavailable",
		Placeholder: PlaceholderTemporarilyUnavailable,
	}
}
