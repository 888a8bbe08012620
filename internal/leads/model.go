package leads

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Selector placeholder values the public form uses while the catalog is
// loading or empty. They must never be persisted as a service reference.
const (
	ServicePlaceholderLoading = "__loading"
	ServicePlaceholderNone    = "__none"
)

// Lead represents a quote request captured by the public form.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone"`
	City      string    `json:"city,omitempty"`
	ServiceID string    `json:"service_id"`
	Note      string    `json:"note,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLeadRequest represents the request body for creating a lead
type CreateLeadRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	ServiceID string `json:"service_id"`
	Note      string `json:"note"`
}

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}

// IsPlaceholderService reports whether id is one of the selector
// placeholders (or empty).
func IsPlaceholderService(id string) bool {
	return id == "" || id == ServicePlaceholderLoading || id == ServicePlaceholderNone
}

// Normalize trims every field in place.
func (r *CreateLeadRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.City = strings.TrimSpace(r.City)
	r.ServiceID = strings.TrimSpace(r.ServiceID)
	r.Note = strings.TrimSpace(r.Note)
}

// Validate normalizes the request and returns per-field messages for
// everything wrong with it. A nil result means the request is clean.
func (r *CreateLeadRequest) Validate() FieldErrors {
	r.Normalize()
	errs := FieldErrors{}

	switch n := utf8.RuneCountInString(r.Name); {
	case n < 2:
		errs["name"] = "Name must be at least 2 characters"
	case n > 100:
		errs["name"] = "Name must be at most 100 characters"
	}

	if r.Email != "" {
		if len(r.Email) > 255 {
			errs["email"] = "Email must be at most 255 characters"
		} else if _, err := mail.ParseAddress(r.Email); err != nil {
			errs["email"] = "Email must be a valid email address"
		}
	}

	switch n := len(r.Phone); {
	case n < 10:
		errs["phone"] = "Phone must be at least 10 characters"
	case n > 20:
		errs["phone"] = "Phone must be at most 20 characters"
	}

	if utf8.RuneCountInString(r.City) > 100 {
		errs["city"] = "City must be at most 100 characters"
	}

	if IsPlaceholderService(r.ServiceID) {
		errs["service_id"] = "Please select a service"
	}

	if utf8.RuneCountInString(r.Note) > 1000 {
		errs["note"] = "Message must be at most 1000 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
