package services

import (
	"context"

	"zettaboard/app/apiclient"
	"zettaboard/app/listing"
	"zettaboard/app/models"
	"zettaboard/app/paging"

	"go.uber.org/zap"
)

const UsersErrorMessage = "Failed to load users."

type UserList struct {
	Query    listing.UserQuery `json:"-"`
	Users    []models.User     `json:"users"`
	Loaded   int               `json:"loaded"`
	Page     int               `json:"page"`
	HasMore  bool              `json:"hasMore"`
	Err      string            `json:"error,omitempty"`
	Selected *models.User      `json:"selected,omitempty"`
}

// Status is the quick-stats label for the paging state.
func (l *UserList) Status() string {
	return pagingStatus(l.HasMore)
}

func pagingStatus(hasMore bool) string {
	if hasMore {
		return "Scrolling…"
	}
	return "All loaded"
}

type UserService struct {
	api      *apiclient.Client
	pageSize int
	totals   paging.Totals
	log      *zap.Logger
}

func NewUserService(api *apiclient.Client, pageSize int, totals paging.Totals, log *zap.Logger) *UserService {
	return &UserService{api: api, pageSize: pageSize, totals: totals, log: log}
}

func (s *UserService) fetchPage(ctx context.Context, page, size int) (paging.Page[models.User], error) {
	users, meta, err := s.api.UsersPage(ctx, page, size)
	if err != nil {
		return paging.Page[models.User]{}, err
	}
	return paging.Page[models.User]{Items: users, Total: meta.TotalCount, HasTotal: meta.HasTotal}, nil
}

// List loads pages 1..q.Pages and resolves the user selected for the modal.
func (s *UserService) List(ctx context.Context, q listing.UserQuery) *UserList {
	loader := paging.New(s.fetchPage, s.pageSize, s.totals)
	replay(ctx, loader, q.Pages)

	out := &UserList{Query: q}
	if err := loader.Err(); err != nil {
		s.log.Warn("Failed to load users page", zap.Int("page", loader.Page()+1), zap.Error(err))
		out.Err = err.Error()
	}

	items := loader.Items()
	out.Users = listing.SortUsers(listing.FilterUsers(items, q.Q), q.Sort)
	out.Loaded = len(items)
	out.Page = loader.Page()
	out.HasMore = loader.HasMore()

	if q.Selected > 0 {
		out.Selected = s.selected(ctx, items, q.Selected)
	}
	return out
}

// selected prefers the already loaded record and falls back to a fetch so
// a shared modal link still opens.
func (s *UserService) selected(ctx context.Context, loaded []models.User, id int) *models.User {
	for i := range loaded {
		if loaded[i].ID == id {
			return &loaded[i]
		}
	}
	u, err := s.api.User(ctx, id)
	if err != nil || u == nil || u.ID == 0 {
		return nil
	}
	return u
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.api.User(ctx, id)
}
