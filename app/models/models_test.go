package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInitial(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain name", in: "leanne Graham", want: "L"},
		{name: "leading space", in: "  ervin", want: "E"},
		{name: "blank", in: "   ", want: "U"},
		{name: "empty", in: "", want: "U"},
		{name: "non ascii", in: "élodie", want: "É"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Initial(tt.in))
		})
	}
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, Dash, OrDash(""))
	assert.Equal(t, Dash, OrDash("  "))
	assert.Equal(t, "Gwenborough", OrDash("Gwenborough"))
}

func TestUserFallbacks(t *testing.T) {
	t.Run("nil user", func(t *testing.T) {
		var u *User
		assert.Equal(t, UnknownUser, u.DisplayName())
		assert.Equal(t, UnknownEmail, u.DisplayEmail())
		assert.Equal(t, "U", u.Initial())
		assert.Equal(t, "#", u.WebsiteURL())
		assert.Empty(t, u.CompanyName())
		assert.Empty(t, u.City())
		assert.Empty(t, u.CatchPhrase())
		assert.Empty(t, u.PhoneNumber())
		assert.Empty(t, u.WebsiteName())
	})

	t.Run("missing optional fields", func(t *testing.T) {
		u := &User{ID: 3, Email: "clementine@example.org"}
		assert.Equal(t, UnknownUser, u.DisplayName())
		assert.Equal(t, "C", u.Initial())
		assert.Empty(t, u.CompanyName())
		assert.Equal(t, "#", u.WebsiteURL())
	})

	t.Run("complete record", func(t *testing.T) {
		u := &User{
			ID:      1,
			Name:    "Leanne Graham",
			Email:   "Sincere@april.biz",
			Website: "hildegard.org",
			Company: &Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered client-server neural-net"},
			Address: &Address{City: "Gwenborough"},
		}
		assert.Equal(t, "Leanne Graham", u.DisplayName())
		assert.Equal(t, "https://hildegard.org", u.WebsiteURL())
		assert.Equal(t, "Romaguera-Crona", u.CompanyName())
		assert.Equal(t, "Gwenborough", u.City())
		assert.Equal(t, "L", u.Initial())
		assert.Equal(t, "hildegard.org", u.WebsiteName())
	})
}

func TestPostLinks(t *testing.T) {
	p := &Post{ID: 7, UserID: 1}
	assert.Equal(t, "/posts/7", p.Href())
	assert.Equal(t, "https://picsum.photos/seed/7/600/320", p.CoverURL())
	assert.Equal(t, 7, p.Key())
}

func TestUsersByID(t *testing.T) {
	users := []User{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	index := UsersByID(users)
	assert.Len(t, index, 2)
	assert.Equal(t, "b", index[2].Name)
	assert.Nil(t, index[3])
}

func TestSession(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s := &Session{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Hour)))
	assert.False(t, (&Session{}).Expired(now))

	assert.Equal(t, "Ada", SessionUser{Name: "Ada", Email: "ada@example.com"}.DisplayName())
	assert.Equal(t, "ada@example.com", SessionUser{Email: "ada@example.com"}.DisplayName())
	assert.Equal(t, "User", SessionUser{}.DisplayName())
	assert.Equal(t, "A", SessionUser{Email: "ada@example.com"}.Initial())
	assert.Equal(t, "U", SessionUser{}.Initial())
}

func TestTheme(t *testing.T) {
	assert.Equal(t, ThemeLight, ParseTheme("light"))
	assert.Equal(t, ThemeDark, ParseTheme("dark"))
	assert.Equal(t, ThemeDark, ParseTheme(""))
	assert.Equal(t, ThemeDark, ParseTheme("solarized"))
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
}
