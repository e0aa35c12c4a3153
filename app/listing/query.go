package listing

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
)

type View string

const (
	ViewGrid View = "grid"
	ViewList View = "list"
)

var validate = validator.New()

// PostQuery is the toolbar state of the posts list as carried in the URL.
type PostQuery struct {
	Pages int      `validate:"gte=1,lte=50"`
	Q     string   `validate:"max=200"`
	Sort  PostSort `validate:"oneof=recent title author"`
	View  View     `validate:"oneof=grid list"`
}

// UserQuery is the toolbar state of the users list as carried in the URL.
type UserQuery struct {
	Pages int      `validate:"gte=1,lte=50"`
	Q     string   `validate:"max=200"`
	Sort  UserSort `validate:"oneof=name company city"`
	View  View     `validate:"oneof=grid list"`
	// Selected is the user whose modal is open, 0 for none.
	Selected int `validate:"gte=0"`
}

func ParsePostQuery(v url.Values) (PostQuery, error) {
	q := PostQuery{
		Pages: 1,
		Q:     v.Get("q"),
		Sort:  PostSort(orDefault(v.Get("sort"), string(PostSortRecent))),
		View:  View(orDefault(v.Get("view"), string(ViewGrid))),
	}
	pages, err := intParam(v, "pages", 1)
	if err != nil {
		return q, err
	}
	q.Pages = pages
	if err := validate.Struct(q); err != nil {
		return q, fmt.Errorf("invalid posts query: %w", err)
	}
	return q, nil
}

func ParseUserQuery(v url.Values) (UserQuery, error) {
	q := UserQuery{
		Pages: 1,
		Q:     v.Get("q"),
		Sort:  UserSort(orDefault(v.Get("sort"), string(UserSortName))),
		View:  View(orDefault(v.Get("view"), string(ViewGrid))),
	}
	pages, err := intParam(v, "pages", 1)
	if err != nil {
		return q, err
	}
	q.Pages = pages
	if q.Selected, err = intParam(v, "user", 0); err != nil {
		return q, err
	}
	if err := validate.Struct(q); err != nil {
		return q, fmt.Errorf("invalid users query: %w", err)
	}
	return q, nil
}

// Values encodes the query back into URL parameters, omitting defaults.
func (q PostQuery) Values() url.Values {
	v := url.Values{}
	setIf(v, "q", q.Q, "")
	setIf(v, "sort", string(q.Sort), string(PostSortRecent))
	setIf(v, "view", string(q.View), string(ViewGrid))
	setIf(v, "pages", strconv.Itoa(q.Pages), "1")
	return v
}

func (q UserQuery) Values() url.Values {
	v := url.Values{}
	setIf(v, "q", q.Q, "")
	setIf(v, "sort", string(q.Sort), string(UserSortName))
	setIf(v, "view", string(q.View), string(ViewGrid))
	setIf(v, "pages", strconv.Itoa(q.Pages), "1")
	if q.Selected > 0 {
		v.Set("user", strconv.Itoa(q.Selected))
	}
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func setIf(v url.Values, key, value, def string) {
	if value != def {
		v.Set(key, value)
	}
}

func intParam(v url.Values, key string, def int) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}
