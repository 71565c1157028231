package api

// Meta is the pagination envelope every list endpoint returns.
type Meta struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

// HasMore reports whether pages remain after page. Backed by the
// server-provided page count; the client never guesses from item counts.
func (m Meta) HasMore(page int) bool {
	return page < m.TotalPages
}
