package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// OrDash returns s, or Dash when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dash
	}
	return s
}

// Initial returns the first letter of s upper-cased, or "U" for blank input.
func Initial(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}

// UsersByID indexes users by their id.
func UsersByID(users []User) map[int]*User {
	index := make(map[int]*User, len(users))
	for i := range users {
		index[users[i].ID] = &users[i]
	}
	return index
}
