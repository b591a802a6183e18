package dto

// TagDTO represents a stored metadata tag
type TagDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Tag      string `json:"tag"`
	Content  string `json:"content"`
	Output   string `json:"output"`
	Ordering int    `json:"ordering"`
	URLID    uint   `json:"url_id"`
}

// ListURLTagsResponse lists the tags of one URL in display order
type ListURLTagsResponse struct {
	URL  URLDTO   `json:"url"`
	Tags []TagDTO `json:"tags"`
}

// RenderTagsRequest asks for the head markup of a page
type RenderTagsRequest struct {
	URL string `query:"url" validate:"required,url,max=2048"`
}

// RenderTagsResponse carries the rendered head markup of a page
type RenderTagsResponse struct {
	URI    string `json:"uri"`
	Markup string `json:"markup"`
	Cached bool   `json:"cached"`
}
