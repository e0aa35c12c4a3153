package models

import "fmt"

// CoverURL returns the placeholder cover image used for featured posts.
func (p *Post) CoverURL() string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/600/320", p.ID)
}

// Href is the dashboard path of the post detail page.
func (p *Post) Href() string {
	return fmt.Sprintf("/posts/%d", p.ID)
}

// Key returns the primary key used to de-duplicate pages.
func (p Post) Key() int {
	return p.ID
}
