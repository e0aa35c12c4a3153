package listing

import (
	"zettaboard/app/models"
)

type UserSort string

const (
	UserSortName    UserSort = "name"
	UserSortCompany UserSort = "company"
	UserSortCity    UserSort = "city"
)

func userFields(u models.User) []string {
	return []string{u.Name, u.Email, u.CompanyName(), u.City()}
}

// FilterUsers matches the query against name, email, company and city.
func FilterUsers(users []models.User, query string) []models.User {
	return Filter(users, query, userFields)
}

func SortUsers(users []models.User, by UserSort) []models.User {
	switch by {
	case UserSortCompany:
		return SortBy(users, func(u models.User) string { return u.CompanyName() })
	case UserSortCity:
		return SortBy(users, func(u models.User) string { return u.City() })
	default:
		return SortBy(users, func(u models.User) string { return u.Name })
	}
}
