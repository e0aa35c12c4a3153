package routes

import (
	"net/http"

	"zettaboard/app/config"
	"zettaboard/app/controllers"
	"zettaboard/app/metrics"
	"zettaboard/app/middleware"
	"zettaboard/app/views"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Controllers is everything the router dispatches to.
type Controllers struct {
	Renderer *controllers.Renderer
	Home     *controllers.HomeController
	Posts    *controllers.PostController
	Comments *controllers.CommentController
	Users    *controllers.UserController
	Auth     *controllers.AuthController
	Theme    *controllers.ThemeController
}

type Options struct {
	Log            *zap.Logger
	Metrics        metrics.Recorder
	MetricsPath    string
	RateLimitRPS   float64
	RateLimitBurst int
	SecureCookies  bool
}

// SetupRoutes defines the application's routes and returns a router. Every
// view is served twice: as HTML and as JSON under /api.
func SetupRoutes(c Controllers, opts Options) *mux.Router {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(c.Renderer.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(c.Renderer.MethodNotAllowed)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(opts.Log))
	router.Use(middleware.Recoverer(opts.Log))
	router.Use(middleware.Metrics(opts.Metrics))
	router.Use(middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, opts.Metrics).Middleware)
	router.Use(middleware.Visitor(opts.SecureCookies))

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	if opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, promhttp.Handler()).Methods("GET")
	}

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	api.HandleFunc("/auth/signin/google", c.Auth.SignIn).Methods("GET")
	api.HandleFunc("/auth/callback/google", c.Auth.Callback).Methods("GET")
	api.HandleFunc("/auth/signout", c.Auth.SignOut).Methods("GET", "POST")
	api.HandleFunc("/auth/session", c.Auth.Session).Methods("GET")
	api.HandleFunc("/theme", c.Theme.Show).Methods("GET")
	api.HandleFunc("/theme", c.Theme.Update).Methods("PUT", "POST")

	registerViews(router, c)
	registerViews(api, c)
	router.HandleFunc("/api", c.Home.Index).Methods("GET")

	return router
}

func registerViews(r *mux.Router, c Controllers) {
	r.HandleFunc("/", c.Home.Index).Methods("GET")
	r.HandleFunc("/theme/toggle", c.Theme.Toggle).Methods("POST")

	posts := r.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", c.Posts.Index).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}", c.Posts.Show).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}/comments", c.Comments.Index).Methods("GET")

	users := r.PathPrefix("/users").Subrouter()
	users.HandleFunc("", c.Users.Index).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}", c.Users.Show).Methods("GET")
}

// NewServer wraps the router in an http.Server with the configured timeouts.
func NewServer(cfg config.Server, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}
