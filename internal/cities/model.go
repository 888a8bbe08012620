package cities

// City is reference data for the quote form's autocomplete. The public
// site never mutates it.
type City struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country"`
	IsActive bool   `json:"is_active"`
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

// Display composes the committed form value, "name" or "name, region".
func (s Suggestion) Display() string {
	if s.Region == "" {
		return s.Name
	}
	return s.Name + ", " + s.Region
}
