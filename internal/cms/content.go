package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/site-glue/internal/model"
)

// Chapters returns every active chapter.
func (c *Client) Chapters(ctx context.Context) ([]model.Chapter, error) {
	data, err := c.Query(ctx, ChaptersQuery())
	if err != nil {
		return nil, err
	}
	return unwrapList[model.Chapter](c.logger, data, "chapters.items"), nil
}

// Page returns the page with the given slug, or nil when there is none.
func (c *Client) Page(ctx context.Context, slug string) (*model.Page, error) {
	data, err := c.Query(ctx, PageQuery(slug))
	if err != nil {
		return nil, err
	}
	return unwrap[model.Page](data, "pages.items.0")
}

// Post returns the post with the given slug. With an empty slug the query
// matches every post and the first one is returned.
func (c *Client) Post(ctx context.Context, slug string) (*model.Post, error) {
	data, err := c.Query(ctx, PostQuery(c.postCollection, slug))
	if err != nil {
		return nil, err
	}
	return unwrap[model.Post](data, "posts.items.0")
}

// Posts returns every post.
func (c *Client) Posts(ctx context.Context) ([]model.Post, error) {
	data, err := c.Query(ctx, PostQuery(c.postCollection, ""))
	if err != nil {
		return nil, err
	}
	return unwrapList[model.Post](c.logger, data, "posts.items"), nil
}

// JSON returns the JSON blob with the given title, or nil when there is none.
func (c *Client) JSON(ctx context.Context, title string) (*model.JSONBlob, error) {
	data, err := c.Query(ctx, JSONQuery(title))
	if err != nil {
		return nil, err
	}
	return unwrap[model.JSONBlob](data, "json.items.0")
}

// SiteIndex fetches chapters and posts concurrently.
func (c *Client) SiteIndex(ctx context.Context) (*model.SiteIndex, error) {
	var idx model.SiteIndex
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		chapters, err := c.Chapters(gctx)
		idx.Chapters = chapters
		return err
	})
	g.Go(func() error {
		posts, err := c.Posts(gctx)
		idx.Posts = posts
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &idx, nil
}

// unwrap decodes the value at path in data. Any missing or null level along
// the path yields nil without an error.
func unwrap[T any](data json.RawMessage, path string) (*T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	r := gjson.GetBytes(data, path)
	if !r.Exists() || r.Type == gjson.Null {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal([]byte(r.Raw), &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return &v, nil
}

// unwrapList decodes the array at path. Items that do not decode are logged
// and skipped so one malformed entry does not hide the rest. A missing or
// null level yields nil.
func unwrapList[T any](logger *slog.Logger, data json.RawMessage, path string) []T {
	if len(data) == 0 {
		return nil
	}
	r := gjson.GetBytes(data, path)
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if !r.IsArray() {
		logger.Warn("skipping non-list cms result", slog.String("path", path))
		return nil
	}
	items := []T{}
	for i, item := range r.Array() {
		var v T
		if err := json.Unmarshal([]byte(item.Raw), &v); err != nil {
			logger.Warn("skipping malformed cms item",
				slog.String("path", path),
				slog.Int("index", i),
				slog.Any("error", err))
			continue
		}
		items = append(items, v)
	}
	return items
}
