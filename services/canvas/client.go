package canvas

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/canvastool/core"
)

// Client talks to the Canvas REST and GraphQL APIs on behalf of one
// instructor token. All calls are blocking and sequential; a failed fetch
// aborts the command that issued it.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	perPage int
	logger  core.Logger
}

func NewClient(conf core.ServerConfig, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(conf.URL, "/"),
		token:   conf.Token,
		http:    &http.Client{Timeout: 2 * time.Minute},
		perPage: core.Conf.GetInt("perPage"),
		logger:  core.NewConsoleLogger(false),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*Client)

func WithLogger(logger core.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// BaseURL exposes the configured server url for building display links.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "canvas: %s %s", req.Method, req.URL.Path)
	}
	c.logger.Debug("%s %s -> %s", req.Method, req.URL.Path, resp.Status)
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, errors.Errorf("canvas: %s %s: %s: %s", req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

// get fetches a single object.
func (c *Client) get(ctx context.Context, path string, params url.Values, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(path, params), nil)
	if err != nil {
		return errors.WithStack(err)
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return errors.Wrapf(json.NewDecoder(resp.Body).Decode(v), "canvas: decoding %s", path)
}

// send issues a form-encoded POST/PUT; v may be nil when the response body
// does not matter.
func (c *Client) send(ctx context.Context, method, path string, form url.Values, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return errors.Wrapf(json.NewDecoder(resp.Body).Decode(v), "canvas: decoding %s", path)
}

func (c *Client) apiURL(path string, params url.Values) string {
	u := c.baseURL + "/api/v1" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// getList fetches every page of a list endpoint, following the Link header.
func getList[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("per_page", strconv.Itoa(c.perPage))

	var out []T
	next := c.apiURL(path, params)
	for next != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		resp, err := c.do(req)
		if err != nil {
			return nil, err
		}
		var page []T
		err = json.NewDecoder(resp.Body).Decode(&page)
		_ = resp.Body.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "canvas: decoding %s", path)
		}
		out = append(out, page...)
		next = nextLink(resp.Header.Get("Link"))
	}
	return out, nil
}

// getWrappedList is getList for endpoints that wrap their page in an object
// (quiz submissions, submission events). unwrap pulls the list out of a page.
func getWrappedList[P any, T any](ctx context.Context, c *Client, path string, params url.Values, unwrap func(P) []T) ([]T, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("per_page", strconv.Itoa(c.perPage))

	var out []T
	next := c.apiURL(path, params)
	for next != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		resp, err := c.do(req)
		if err != nil {
			return nil, err
		}
		var page P
		err = json.NewDecoder(resp.Body).Decode(&page)
		_ = resp.Body.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "canvas: decoding %s", path)
		}
		out = append(out, unwrap(page)...)
		next = nextLink(resp.Header.Get("Link"))
	}
	return out, nil
}

// nextLink extracts the rel="next" url from a Link header, if any.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		if strings.TrimSpace(section[1]) == `rel="next"` {
			return strings.Trim(strings.TrimSpace(section[0]), "<>")
		}
	}
	return ""
}
