package routes

import (
	"testing"
	"time"

	"zettaboard/app/apiclient"
	"zettaboard/app/apiclient/fake"
	"zettaboard/app/controllers"
	"zettaboard/app/metrics"
	"zettaboard/app/paging"
	"zettaboard/app/repositories"
	"zettaboard/app/services"
	"zettaboard/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestStore(t *testing.T) *repositories.Store {
	store, err := repositories.NewStore("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// setupTestControllers builds every controller over an in-memory badger
// store and the fake upstream, with the response cache enabled.
func setupTestControllers(t *testing.T) (Controllers, *fake.API, *repositories.Store) {
	t.Helper()
	log := zap.NewNop()
	store := setupTestStore(t)
	api := fake.New()
	srv := api.Start(t)

	client := apiclient.New(srv.URL,
		apiclient.WithCache(repositories.NewBadgerCacheRepository(store.DB()), time.Minute),
		apiclient.WithLogger(log),
	)
	themes := services.NewThemeService(repositories.NewBadgerPreferenceRepository(store.DB()), log)
	rd := controllers.NewRenderer(views.MustLoad(), themes, nil, log)
	postService := services.NewPostService(client, 12, paging.Totals{IfAbsent: 100}, log)
	userService := services.NewUserService(client, 12, paging.Totals{IfAbsent: 10, IfZero: 200}, log)

	return Controllers{
		Renderer: rd,
		Home:     controllers.NewHomeController(rd, services.NewDashboardService(client, log)),
		Posts:    controllers.NewPostController(rd, postService),
		Comments: controllers.NewCommentController(rd, postService),
		Users:    controllers.NewUserController(rd, userService),
		Auth:     controllers.NewAuthController(rd, nil, false, time.Hour),
		Theme:    controllers.NewThemeController(rd),
	}, api, store
}

func setupTestRouter(t *testing.T, opts Options) (*mux.Router, *fake.API, *repositories.Store) {
	t.Helper()
	c, api, store := setupTestControllers(t)
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	return SetupRoutes(c, opts), api, store
}
