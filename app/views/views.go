package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strings"

	"zettaboard/app/models"
)

//go:embed templates static
var files embed.FS

// Brand is the product name shown in the sidebar and page titles.
const Brand = "Zettaboard"

// page name -> template files, relative to templates/
var pages = map[string][]string{
	"home":  {"layout.html", "shared.html", "home/index.html"},
	"posts": {"layout.html", "shared.html", "posts/index.html"},
	"post":  {"layout.html", "shared.html", "posts/show.html"},
	"users": {"layout.html", "shared.html", "users/index.html"},
	"error": {"layout.html", "shared.html", "error.html"},
}

// Templates holds one parsed set per page.
type Templates map[string]*template.Template

// Load parses the embedded templates.
func Load() (Templates, error) {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		return nil, err
	}
	return loadTemplates(sub)
}

// MustLoad is Load for package initialisation paths.
func MustLoad() Templates {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

func loadTemplates(fsys fs.FS) (Templates, error) {
	out := make(Templates, len(pages))
	for name, list := range pages {
		t, err := template.New(name).Funcs(Funcs()).ParseFS(fsys, list...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s templates: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// Static returns the stylesheet and script served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is what every full page template receives.
type Page struct {
	Title       string
	Path        string
	Nav         []NavItem
	Theme       models.Theme
	User        *models.SessionUser
	AuthEnabled bool
	Data        any
}

// NewPage fills the shell fields for the given request path.
func NewPage(path string, theme models.Theme, user *models.SessionUser, authEnabled bool, data any) *Page {
	return &Page{
		Title:       RouteTitle(path),
		Path:        path,
		Nav:         Nav(path),
		Theme:       theme,
		User:        user,
		AuthEnabled: authEnabled,
		Data:        data,
	}
}

type NavItem struct {
	Label  string
	Href   string
	Icon   string
	Active bool
}

var navItems = []NavItem{
	{Label: "Dashboard", Href: "/", Icon: "◧"},
	{Label: "Posts", Href: "/posts", Icon: "✎"},
	{Label: "Users", Href: "/users", Icon: "☺"},
}

// Nav returns the sidebar items with the exact path match marked active.
func Nav(path string) []NavItem {
	out := make([]NavItem, len(navItems))
	for i, item := range navItems {
		item.Active = item.Href == path
		out[i] = item
	}
	return out
}

// RouteTitle is the header title for a path.
func RouteTitle(path string) string {
	switch {
	case strings.HasPrefix(path, "/posts"):
		return "Posts"
	case strings.HasPrefix(path, "/users"):
		return "Users"
	default:
		return "Dashboard"
	}
}

// ErrorData is rendered by the error page.
type ErrorData struct {
	Status  int
	Message string
}

// Href copies v, applies key/value pairs and returns base?query. An empty
// value removes the key.
func Href(base string, v url.Values, kv ...any) string {
	q := url.Values{}
	for k, vals := range v {
		q[k] = append([]string(nil), vals...)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		val := fmt.Sprint(kv[i+1])
		if val == "" {
			q.Del(key)
			continue
		}
		q.Set(key, val)
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}
