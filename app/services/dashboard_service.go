package services

import (
	"context"
	"fmt"
	"math"
	"slices"

	"zettaboard/app/apiclient"
	"zettaboard/app/fetch"
	"zettaboard/app/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	trendPoints     = 7
	recentPosts     = 5
	topAuthorsLimit = 5
	timelinePosts   = 3
	timelineUsers   = 2
	qualityScore    = 72

	HomeErrorMessage = "Failed to load data."
)

type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
	Href  string `json:"href,omitempty"`
}

// Trend is the posts trend series with its summary numbers.
type Trend struct {
	Values []int    `json:"values"`
	Labels []string `json:"labels"`
	Avg    int      `json:"avg"`
	Best   int      `json:"best"`
	Spread int      `json:"spread"`
}

type AuthorStat struct {
	Rank  int          `json:"rank"`
	User  *models.User `json:"user,omitempty"`
	Count int          `json:"count"`
}

// Name falls back to the author's rank when the user is not loaded.
func (a AuthorStat) Name() string {
	if a.User != nil {
		return a.User.Name
	}
	return fmt.Sprintf("User #%d", a.Rank)
}

type Activity struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	ID    int    `json:"id"`
}

func (a Activity) Label() string {
	if a.Kind == "post" {
		return "New post"
	}
	return "New user"
}

// Gauge is a percentage clamped to 0..100.
type Gauge struct {
	Percent int `json:"percent"`
}

func NewGauge(percent int) Gauge {
	return Gauge{Percent: max(0, min(100, percent))}
}

// Degrees is the conic sweep of the gauge, 3.6 degrees per percent.
func (g Gauge) Degrees() float64 {
	return float64(g.Percent) * 3.6
}

type Home struct {
	KPIs       []KPI         `json:"kpis"`
	Trend      Trend         `json:"trend"`
	Featured   *models.Post  `json:"featured,omitempty"`
	Recent     []models.Post `json:"recent"`
	TopAuthors []AuthorStat  `json:"topAuthors"`
	Activity   []Activity    `json:"activity"`
	Gauge      Gauge         `json:"gauge"`
	Err        string        `json:"error,omitempty"`
}

// DashboardService builds the home view from the full posts and users
// collections.
type DashboardService struct {
	api *apiclient.Client
	log *zap.Logger
}

func NewDashboardService(api *apiclient.Client, log *zap.Logger) *DashboardService {
	return &DashboardService{api: api, log: log}
}

func (s *DashboardService) Home(ctx context.Context) *Home {
	posts := fetch.New(ctx, apiclient.Fetcher[[]models.Post](s.api))
	users := fetch.New(ctx, apiclient.Fetcher[[]models.User](s.api))
	defer posts.Close()
	defer users.Close()

	posts.Load(s.api.PostsURL())
	users.Load(s.api.UsersURL())

	var ps fetch.State[[]models.Post]
	var us fetch.State[[]models.User]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ps, err = posts.Wait(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		us, err = users.Wait(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("Home data wait aborted", zap.Error(err))
		return BuildHome(nil, nil, err)
	}

	loadErr := ps.Err
	if loadErr == nil {
		loadErr = us.Err
	}
	if loadErr != nil {
		s.log.Warn("Failed to load home data", zap.Error(loadErr))
	}
	return BuildHome(ps.Data, us.Data, loadErr)
}

// BuildHome derives every home widget from the loaded collections.
func BuildHome(posts []models.Post, users []models.User, loadErr error) *Home {
	h := &Home{
		KPIs: []KPI{
			{Label: "Total Posts", Value: fmt.Sprint(len(posts)), Delta: "+12% MoM", Href: "/posts"},
			{Label: "Total Users", Value: fmt.Sprint(len(users)), Delta: "+5% MoM", Href: "/users"},
			{Label: "Engagement", Value: "7.4", Delta: "+0.3 vs last wk"},
		},
		Trend:      BuildTrend(posts),
		Recent:     posts[:min(recentPosts, len(posts))],
		TopAuthors: TopAuthors(posts, users, topAuthorsLimit),
		Activity:   BuildActivity(posts, users),
		Gauge:      NewGauge(qualityScore),
	}
	if len(posts) > 0 {
		featured := posts[0]
		h.Featured = &featured
	}
	if loadErr != nil {
		h.Err = HomeErrorMessage
	}
	return h
}

// BuildTrend takes the first seven posts as a series of id%70+20.
func BuildTrend(posts []models.Post) Trend {
	n := min(trendPoints, len(posts))
	t := Trend{Values: make([]int, 0, n), Labels: make([]string, 0, n)}
	sum := 0
	for i, p := range posts[:n] {
		v := p.ID%70 + 20
		t.Values = append(t.Values, v)
		t.Labels = append(t.Labels, fmt.Sprint(i+1))
		sum += v
	}
	t.Avg = int(math.Round(float64(sum) / float64(max(1, n))))
	if n > 0 {
		t.Best = slices.Max(t.Values)
		t.Spread = t.Best - slices.Min(t.Values)
	}
	return t
}

// TopAuthors counts posts per author, highest first. Ties keep the order
// in which authors first appear.
func TopAuthors(posts []models.Post, users []models.User, limit int) []AuthorStat {
	counts := map[int]int{}
	var order []int
	for _, p := range posts {
		if _, ok := counts[p.UserID]; !ok {
			order = append(order, p.UserID)
		}
		counts[p.UserID]++
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return counts[b] - counts[a]
	})

	index := models.UsersByID(users)
	out := make([]AuthorStat, 0, min(limit, len(order)))
	for i, id := range order[:min(limit, len(order))] {
		out = append(out, AuthorStat{Rank: i + 1, User: index[id], Count: counts[id]})
	}
	return out
}

// BuildActivity lists the first three posts followed by the first two users.
func BuildActivity(posts []models.Post, users []models.User) []Activity {
	var out []Activity
	for _, p := range posts[:min(timelinePosts, len(posts))] {
		out = append(out, Activity{Kind: "post", Title: p.Title, ID: p.ID})
	}
	for _, u := range users[:min(timelineUsers, len(users))] {
		out = append(out, Activity{Kind: "user", Title: u.Name, ID: u.ID})
	}
	return out
}
