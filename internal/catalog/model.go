package catalog

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrServiceNotFound is returned when no active service has the id
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidService is returned when a service payload fails validation
	ErrInvalidService = errors.New("service title and slug are required")
)

// Service is a wash offering administrators curate and the public selects
// when requesting a quote.
type Service struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Heading      string    `json:"heading,omitempty"`
	Subheading   string    `json:"subheading,omitempty"`
	Body         string    `json:"body,omitempty"`
	Slug         string    `json:"slug"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	Images       []string  `json:"images"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Option is the shape the public service selector consumes.
type Option struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Validate checks the fields administrators must supply.
func (s *Service) Validate() error {
	s.Title = strings.TrimSpace(s.Title)
	s.Slug = strings.TrimSpace(s.Slug)
	if s.Title == "" || s.Slug == "" {
		return ErrInvalidService
	}
	return nil
}
