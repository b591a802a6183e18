package models

// ContentData is what an extension reader knows about the item or category behind a page
// Every field is optional; readers leave unknown values empty
type ContentData struct {
	Title    string `json:"title"`
	MetaDesc string `json:"metadesc"`
	Image    string `json:"image"`
	ImageAlt string `json:"image_alt"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
}

// IsEmpty reports whether the reader found nothing
func (d ContentData) IsEmpty() bool {
	return d == ContentData{}
}
