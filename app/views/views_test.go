package views

import (
	"bytes"
	"errors"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"zettaboard/app/listing"
	"zettaboard/app/models"
	"zettaboard/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePosts(n int) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{ID: i + 1, UserID: i%2 + 1, Title: "Post title " + string(rune('A'+i)), Body: "body"}
	}
	return posts
}

func sampleUsers() []models.User {
	return []models.User{
		{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz", Username: "Bret", Website: "hildegard.org",
			Company: &models.Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered client-server neural-net"},
			Address: &models.Address{City: "Gwenborough"}},
		{ID: 2, Name: "Ervin Howell", Email: "Shanna@melissa.tv", Username: "Antonette"},
	}
}

func render(t *testing.T, tpl Templates, page, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tpl[page].ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func TestLoad(t *testing.T) {
	tpl, err := Load()
	require.NoError(t, err)
	for name := range pages {
		assert.NotNil(t, tpl[name], name)
		assert.NotNil(t, tpl[name].Lookup("layout"), name)
		assert.NotNil(t, tpl[name].Lookup("content"), name)
	}
	assert.NotNil(t, tpl["posts"].Lookup("post_list"))
	assert.NotNil(t, tpl["users"].Lookup("user_list"))
}

func TestLoadTemplatesMissingFile(t *testing.T) {
	_, err := loadTemplates(fstest.MapFS{
		"layout.html": {Data: []byte(`{{define "layout"}}{{end}}`)},
	})
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"style.css", "app.js"} {
		f, err := Static().Open(name)
		require.NoError(t, err, name)
		f.Close()
	}
}

func TestRouteTitle(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "Dashboard"},
		{"/posts", "Posts"},
		{"/posts/4", "Posts"},
		{"/users", "Users"},
		{"/users?user=2", "Users"},
		{"/elsewhere", "Dashboard"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RouteTitle(tt.path), tt.path)
	}
}

func TestNavActiveIsExactMatch(t *testing.T) {
	active := func(path string) []string {
		var out []string
		for _, item := range Nav(path) {
			if item.Active {
				out = append(out, item.Label)
			}
		}
		return out
	}
	assert.Equal(t, []string{"Dashboard"}, active("/"))
	assert.Equal(t, []string{"Posts"}, active("/posts"))
	assert.Empty(t, active("/posts/3"))
	assert.Equal(t, []string{"Users"}, active("/users"))

	// Nav hands out copies
	Nav("/posts")[0].Active = true
	assert.False(t, navItems[0].Active)
}

func TestHref(t *testing.T) {
	v := url.Values{"q": {"foo"}, "sort": {"title"}}

	assert.Equal(t, "/posts?pages=2&q=foo&sort=title", Href("/posts", v, "pages", 2))
	assert.Equal(t, "/posts?sort=title", Href("/posts", v, "q", ""))
	assert.Equal(t, "/posts", Href("/posts", nil))
	assert.Equal(t, []string{"foo"}, v["q"], "input is not modified")
}

func TestChart(t *testing.T) {
	assert.False(t, ChartOK(nil, nil))
	assert.False(t, ChartOK([]int{1, 2}, []string{"1"}))
	assert.True(t, ChartOK([]int{1, 2}, []string{"1", "2"}))

	assert.Empty(t, ChartPoints(nil))
	assert.Equal(t, "8.0,92.0 150.0,8.0 292.0,50.0", ChartPoints([]int{10, 30, 20}))
	assert.Equal(t, "8.0,92.0", ChartPoints([]int{5}))
	assert.Equal(t, "8.0,92.0 292.0,92.0", ChartPoints([]int{5, 5}))
}

func TestGaugeStyle(t *testing.T) {
	assert.Equal(t, "--sweep: 259.2deg", string(GaugeStyle(services.NewGauge(72).Degrees())))
	assert.Equal(t, "--sweep: 0deg", string(GaugeStyle(0)))
}

func TestRenderHome(t *testing.T) {
	tpl := MustLoad()
	home := services.BuildHome(samplePosts(8), sampleUsers(), nil)
	out := render(t, tpl, "home", "layout", NewPage("/", models.ThemeDark, nil, false, home))

	assert.Contains(t, out, `data-theme="dark"`)
	assert.Contains(t, out, "Total Posts")
	assert.Contains(t, out, "+12% MoM")
	assert.Contains(t, out, "Posts Trend")
	assert.Contains(t, out, "<polyline")
	assert.Contains(t, out, "By user #1")
	assert.Contains(t, out, "https://picsum.photos/seed/1/600/320")
	assert.Contains(t, out, "4 posts")
	assert.Contains(t, out, "New post: Post title A")
	assert.Contains(t, out, "New user: Leanne Graham")
	assert.Contains(t, out, "--sweep: 259.2deg")
	assert.Contains(t, out, "72%")
	assert.Contains(t, out, "Create (mock)")
	assert.NotContains(t, out, "Login", "login is hidden when auth is disabled")
	assert.NotContains(t, out, "Failed to load data.")
}

func TestRenderHomeEmptyAndFailed(t *testing.T) {
	tpl := MustLoad()
	home := services.BuildHome(nil, nil, errors.New("HTTP 500"))
	out := render(t, tpl, "home", "layout", NewPage("/", models.ThemeLight, nil, true, home))

	assert.Contains(t, out, "Failed to load data.")
	assert.Contains(t, out, "No chart data")
	assert.Contains(t, out, `href="/api/auth/signin/google"`)
}

func TestRenderHeaderSignedIn(t *testing.T) {
	tpl := MustLoad()
	user := &models.SessionUser{Name: "ada lovelace", Email: "ada@example.com"}
	out := render(t, tpl, "error", "layout", NewPage("/x", models.ThemeDark, user, true, ErrorData{Status: 404, Message: "Page not found"}))

	assert.Contains(t, out, "ada lovelace")
	assert.Contains(t, out, `<span class="avatar">A</span>`)
	assert.Contains(t, out, "Sign out")
	assert.NotContains(t, out, ">Login<")
	assert.Contains(t, out, "Page not found")
}

func postList(posts []models.Post, q listing.PostQuery) *services.PostList {
	users := models.UsersByID(sampleUsers())
	return &services.PostList{Query: q, Posts: posts, Loaded: len(posts), Page: 1, HasMore: true, Users: users, Authors: len(users)}
}

func TestRenderPosts(t *testing.T) {
	tpl := MustLoad()
	q := listing.PostQuery{Pages: 1, Sort: listing.PostSortTitle, View: listing.ViewList, Q: "post"}
	out := render(t, tpl, "posts", "layout", NewPage("/posts", models.ThemeDark, nil, false, postList(samplePosts(3), q)))

	assert.Contains(t, out, `class="nav-item active" href="/posts"`)
	assert.Contains(t, out, "<h1>Posts</h1>")
	assert.Contains(t, out, "3 loaded")
	assert.Contains(t, out, "Leanne Graham")
	assert.Contains(t, out, "Ervin Howell")
	assert.Contains(t, out, `class="rows"`)
	assert.Contains(t, out, `value="title" selected`)
	assert.Contains(t, out, "Load more")
	assert.Contains(t, out, "pages=2")
	assert.Contains(t, out, "Scrolling…")
	assert.NotContains(t, out, "You’ve reached the end.")
}

func TestRenderPostsPartialStates(t *testing.T) {
	tpl := MustLoad()
	q := listing.PostQuery{Pages: 1, Sort: listing.PostSortRecent, View: listing.ViewGrid}

	t.Run("end", func(t *testing.T) {
		l := postList(samplePosts(2), q)
		l.HasMore = false
		out := render(t, tpl, "posts", "post_list", l)
		assert.Contains(t, out, "You’ve reached the end.")
		assert.Contains(t, out, "All loaded")
		assert.NotContains(t, out, "data-sentinel")
		assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "<!DOCTYPE"))
	})

	t.Run("empty", func(t *testing.T) {
		l := postList(nil, q)
		l.HasMore = false
		out := render(t, tpl, "posts", "post_list", l)
		assert.Contains(t, out, "No posts found.")
	})

	t.Run("failed", func(t *testing.T) {
		l := postList(samplePosts(2), q)
		l.Page = 0
		l.Users = nil
		l.UsersErr = "HTTP 502"
		out := render(t, tpl, "posts", "post_list", l)
		assert.Contains(t, out, "Failed to load content.")
		assert.Contains(t, out, "HTTP 502")
		assert.Contains(t, out, `href="/posts?pages=1"`)
		assert.Contains(t, out, "Unknown user")
	})
}

func TestRenderPostDetail(t *testing.T) {
	tpl := MustLoad()
	users := sampleUsers()
	post := samplePosts(1)[0]
	detail := &services.PostDetail{
		Post:         &post,
		Author:       &users[1],
		Comments:     []models.Comment{{ID: 1, PostID: 1, Name: "first", Email: "c@example.com", Body: "nice"}},
		CommentTotal: 5,
	}
	out := render(t, tpl, "post", "layout", NewPage("/posts/1", models.ThemeDark, nil, false, detail))

	assert.Contains(t, out, "Post title A")
	assert.Contains(t, out, "Ervin Howell")
	assert.Contains(t, out, "5 total")
	assert.Contains(t, out, "Catch phrase")
	assert.Contains(t, out, `href="#"`, "no website links to #")
	assert.Contains(t, out, "—")

	failed := &services.PostDetail{Err: "HTTP 404"}
	out = render(t, tpl, "post", "layout", NewPage("/posts/99", models.ThemeDark, nil, false, failed))
	assert.Contains(t, out, "HTTP 404")

	noComments := &services.PostDetail{Post: &post, Author: &users[0], CommentsErr: services.CommentsErrorMessage}
	out = render(t, tpl, "post", "layout", NewPage("/posts/1", models.ThemeDark, nil, false, noComments))
	assert.Contains(t, out, "Failed to load comments.")
	assert.Contains(t, out, "https://hildegard.org")
}

func TestRenderUsers(t *testing.T) {
	tpl := MustLoad()
	users := sampleUsers()
	list := &services.UserList{
		Query:    listing.UserQuery{Pages: 1, Sort: listing.UserSortName, View: listing.ViewGrid, Selected: 1},
		Users:    users,
		Loaded:   2,
		Page:     1,
		Selected: &users[0],
	}
	out := render(t, tpl, "users", "layout", NewPage("/users", models.ThemeDark, nil, false, list))

	assert.Contains(t, out, "Loaded users")
	assert.Contains(t, out, "All loaded")
	assert.Contains(t, out, "You’ve reached the end.")
	assert.Contains(t, out, `role="dialog"`)
	assert.Contains(t, out, "Bret")
	assert.Contains(t, out, "Multi-layered client-server neural-net")
	assert.Contains(t, out, "Gwenborough")
	assert.Contains(t, out, ">Close<")

	list.Selected = nil
	list.Users = nil
	list.Err = "HTTP 500"
	out = render(t, tpl, "users", "user_list", list)
	assert.Contains(t, out, "Failed to load users.")
	assert.NotContains(t, out, "No users found.")
	assert.NotContains(t, out, `role="dialog"`)
}
