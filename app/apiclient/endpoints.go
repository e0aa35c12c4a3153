package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"zettaboard/app/models"
)

func (c *Client) PostsURL() string {
	return c.URL("posts", nil)
}

func (c *Client) UsersURL() string {
	return c.URL("users", nil)
}

func (c *Client) PostURL(id int) string {
	return c.URL(fmt.Sprintf("posts/%d", id), nil)
}

func (c *Client) UserURL(id int) string {
	return c.URL(fmt.Sprintf("users/%d", id), nil)
}

func (c *Client) CommentsURL(postID int) string {
	return c.URL(fmt.Sprintf("posts/%d/comments", postID), nil)
}

// PageURL builds a paginated collection URL with _page and _limit.
func (c *Client) PageURL(collection string, page, limit int) string {
	q := url.Values{}
	q.Set("_page", strconv.Itoa(page))
	q.Set("_limit", strconv.Itoa(limit))
	return c.URL(collection, q)
}

func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	posts, _, err := GetJSON[[]models.Post](ctx, c, c.PostsURL())
	return posts, err
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	users, _, err := GetJSON[[]models.User](ctx, c, c.UsersURL())
	return users, err
}

func (c *Client) Post(ctx context.Context, id int) (*models.Post, error) {
	post, _, err := GetJSON[*models.Post](ctx, c, c.PostURL(id))
	return post, err
}

func (c *Client) User(ctx context.Context, id int) (*models.User, error) {
	user, _, err := GetJSON[*models.User](ctx, c, c.UserURL(id))
	return user, err
}

func (c *Client) Comments(ctx context.Context, postID int) ([]models.Comment, error) {
	comments, _, err := GetJSON[[]models.Comment](ctx, c, c.CommentsURL(postID))
	return comments, err
}

func (c *Client) PostsPage(ctx context.Context, page, limit int) ([]models.Post, Meta, error) {
	return GetJSON[[]models.Post](ctx, c, c.PageURL("posts", page, limit))
}

func (c *Client) UsersPage(ctx context.Context, page, limit int) ([]models.User, Meta, error) {
	return GetJSON[[]models.User](ctx, c, c.PageURL("users", page, limit))
}
