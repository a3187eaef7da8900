package servagri

import "fmt"

// Status values for both entity types.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// NewsItem is a news article managed through the admin dashboard.
// JSON field names are the wire format shared by the API, the client,
// and the mirror cache.
type NewsItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Excerpt     string `json:"excerpt"`
	FullContent string `json:"fullContent"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	IsFeatured  bool   `json:"isFeatured"`
	Version     int    `json:"version"`
	CreatedAt   string `json:"createdAt"`
}

// ProjectItem is a project showcase ("realisation") with an ordered
// gallery of up to MaxProjectImages encoded images or URLs.
type ProjectItem struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Excerpt     string   `json:"excerpt"`
	FullContent string   `json:"fullContent"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
	IsFeatured  bool     `json:"isFeatured"`
	Version     int      `json:"version"`
	CreatedAt   string   `json:"createdAt"`
}

// Validate checks the persistence invariants for a news item.
func (n NewsItem) Validate() error {
	switch {
	case n.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case n.Date == "":
		return fmt.Errorf("%w: date is required", ErrValidation)
	case n.Excerpt == "":
		return fmt.Errorf("%w: excerpt is required", ErrValidation)
	}
	if n.Status != "" && n.Status != StatusDraft && n.Status != StatusPublished {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, n.Status)
	}
	return nil
}

// Validate checks the persistence invariants for a project. forCreate
// enforces the at-least-one-image rule, which is relaxed when editing
// an existing record.
func (p ProjectItem) Validate(forCreate bool) error {
	switch {
	case p.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case p.Date == "":
		return fmt.Errorf("%w: date is required", ErrValidation)
	case p.Excerpt == "":
		return fmt.Errorf("%w: excerpt is required", ErrValidation)
	}
	if forCreate && len(p.Images) == 0 {
		return fmt.Errorf("%w: at least one image is required", ErrValidation)
	}
	if len(p.Images) > MaxProjectImages {
		return fmt.Errorf("%w: at most %d images allowed", ErrValidation, MaxProjectImages)
	}
	if p.Status != "" && p.Status != StatusDraft && p.Status != StatusPublished {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, p.Status)
	}
	return nil
}
