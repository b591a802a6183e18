package dto

// DispatchRequest describes a page request the site has just dispatched
// Vars carries the route variables of the page, e.g. {"id": "12:my-article", "catid": "3"}
type DispatchRequest struct {
	URL          string            `json:"url" validate:"required,url,max=2048"`
	Method       string            `json:"method" validate:"required,max=16"`
	DocumentType string            `json:"document_type,omitempty" validate:"omitempty,max=32"`
	IsAdmin      bool              `json:"is_admin"`
	Option       string            `json:"option" validate:"required,max=64"`
	View         string            `json:"view,omitempty" validate:"omitempty,max=64"`
	Task         string            `json:"task,omitempty" validate:"omitempty,max=64"`
	MenuItemID   int               `json:"menu_item_id,omitempty" validate:"omitempty,min=0"`
	Vars         map[string]string `json:"vars,omitempty"`
}

// DispatchResponse reports the outcome of one tag update pass
type DispatchResponse struct {
	Message     string `json:"message"`
	Processed   bool   `json:"processed"`
	Reason      string `json:"reason,omitempty"`
	URLID       uint   `json:"url_id,omitempty"`
	Inserted    int    `json:"inserted"`
	Updated     int    `json:"updated"`
	Invalidated bool   `json:"cache_invalidated"`
}
