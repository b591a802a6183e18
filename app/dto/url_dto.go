package dto

// CreateURLRequest registers a page whose tags should be kept up to date
type CreateURLRequest struct {
	URI        string `json:"uri" validate:"required,url,max=2048"`
	Autoupdate *bool  `json:"autoupdate,omitempty"`
	Published  *bool  `json:"published,omitempty"`
}

// URLDTO represents a tracked URL in responses
type URLDTO struct {
	ID         uint    `json:"id"`
	URI        string  `json:"uri"`
	Autoupdate bool    `json:"autoupdate"`
	Published  bool    `json:"published"`
	CheckedAt  *string `json:"checked_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// CreateURLResponse represents the response to registering a URL
type CreateURLResponse struct {
	Message string `json:"message"`
	URL     URLDTO `json:"url"`
}
