package models

// Key returns the primary key of the comment.
func (c Comment) Key() int {
	return c.ID
}
