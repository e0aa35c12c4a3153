package listing

import (
	"zettaboard/app/models"
)

type PostSort string

const (
	PostSortRecent PostSort = "recent"
	PostSortTitle  PostSort = "title"
	PostSortAuthor PostSort = "author"
)

func postFields(p models.Post) []string {
	return []string{p.Title, p.Body}
}

// FilterPosts matches the query against title and body.
func FilterPosts(posts []models.Post, query string) []models.Post {
	return Filter(posts, query, postFields)
}

// SortPosts orders posts. recent keeps API order; author sorts by the
// author's name from users, with unknown authors sorting as "".
func SortPosts(posts []models.Post, by PostSort, users map[int]*models.User) []models.Post {
	switch by {
	case PostSortTitle:
		return SortBy(posts, func(p models.Post) string { return p.Title })
	case PostSortAuthor:
		return SortBy(posts, func(p models.Post) string {
			if u := users[p.UserID]; u != nil {
				return u.Name
			}
			return ""
		})
	default:
		return posts
	}
}
