package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/core/ports"
)

var (
	_ ports.WeatherAPI   = (*Client)(nil)
	_ ports.ForumAPI     = (*Client)(nil)
	_ ports.SchemeAPI    = (*Client)(nil)
	_ ports.SoilTestAPI  = (*Client)(nil)
	_ ports.DetectionAPI = (*Client)(nil)
)

func (c *Client) Weather(ctx context.Context, location string) (domain.Weather, error) {
	var w domain.Weather
	q := url.Values{}
	if location != "" {
		q.Set("location", location)
	}
	err := c.doJSON(ctx, http.MethodGet, "/weather", q, nil, &w)
	return w, err
}

func (c *Client) Forum(ctx context.Context) ([]domain.ForumPost, error) {
	var posts []domain.ForumPost
	err := c.doJSON(ctx, http.MethodGet, "/forum", nil, nil, &posts)
	return posts, err
}

func (c *Client) CreatePost(ctx context.Context, title, content string) (domain.ForumPost, error) {
	payload := map[string]string{"title": title, "content": content}
	var post domain.ForumPost
	err := c.doJSON(ctx, http.MethodPost, "/forum", nil, payload, &post)
	return post, err
}

func (c *Client) Vote(ctx context.Context, postID string, dir domain.VoteDirection) (domain.ForumPost, error) {
	if dir != domain.VoteUp && dir != domain.VoteDown {
		return domain.ForumPost{}, fmt.Errorf("vote direction %q: %w", dir, domain.ErrInvalidInput)
	}
	var post domain.ForumPost
	path := fmt.Sprintf("/forum/%s/%s", url.PathEscape(postID), dir)
	err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &post)
	return post, err
}

func (c *Client) Schemes(ctx context.Context, sq domain.SchemeQuery) (domain.SchemePage, error) {
	q := url.Values{}
	if sq.Search != "" {
		q.Set("search", sq.Search)
	}
	if sq.Category != "" {
		q.Set("category", sq.Category)
	}
	if sq.Page > 0 {
		q.Set("page", strconv.Itoa(sq.Page))
	}
	if sq.Limit > 0 {
		q.Set("limit", strconv.Itoa(sq.Limit))
	}
	var page domain.SchemePage
	err := c.doJSON(ctx, http.MethodGet, "/schemes", q, nil, &page)
	return page, err
}

func (c *Client) CreateScheme(ctx context.Context, s domain.Scheme) (domain.Scheme, error) {
	var out domain.Scheme
	err := c.doJSON(ctx, http.MethodPost, "/schemes", nil, s, &out)
	return out, err
}

func (c *Client) UpdateScheme(ctx context.Context, id string, s domain.Scheme) (domain.Scheme, error) {
	var out domain.Scheme
	err := c.doJSON(ctx, http.MethodPut, "/schemes/"+url.PathEscape(id), nil, s, &out)
	return out, err
}

func (c *Client) DeleteScheme(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/schemes/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) SoilTests(ctx context.Context) ([]domain.SoilTest, error) {
	var tests []domain.SoilTest
	err := c.doJSON(ctx, http.MethodGet, "/soil-tests", nil, nil, &tests)
	return tests, err
}

// CreateSoilTest submits a sample; the backend answers with
// {soilTest:{..., recommendations}}.
func (c *Client) CreateSoilTest(ctx context.Context, t domain.SoilTest) (domain.SoilTest, error) {
	var resp struct {
		SoilTest domain.SoilTest `json:"soilTest"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/soil-tests", nil, t, &resp)
	return resp.SoilTest, err
}

// Detect uploads an image as multipart field "image".
func (c *Client) Detect(ctx context.Context, filename string, image io.Reader) (domain.Detection, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("image", filepath.Base(filename))
		if err == nil {
			_, err = io.Copy(part, image)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	var det domain.Detection
	err := c.do(ctx, http.MethodPost, "/detection", nil, pr, mw.FormDataContentType(), &det)
	// Unblock the writer if the request ended before the body was consumed.
	_ = pr.CloseWithError(io.ErrClosedPipe)
	return det, err
}
