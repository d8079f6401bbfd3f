package tumblr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lysyi3m/soublr/app/post"
)

var ErrMissingPostID = errors.New("response has no post id")

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(httpClient *http.Client, baseURL, userAgent string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

type envelope struct {
	Meta struct {
		Status int    `json:"status"`
		Msg    string `json:"msg"`
	} `json:"meta"`
	Response json.RawMessage `json:"response"`
	Errors   json.RawMessage `json:"errors,omitempty"`
}

type userInfo struct {
	User struct {
		Name  string `json:"name"`
		Blogs []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"blogs"`
	} `json:"user"`
}

// Identity returns the host of the authenticated user's first blog, e.g.
// "example.tumblr.com".
func (c *Client) Identity(ctx context.Context) (string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/v2/user/info", nil)
	if err != nil {
		return "", fmt.Errorf("failed to get user info: %w", err)
	}

	var info userInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return "", fmt.Errorf("failed to decode user info: %w", err)
	}

	if len(info.User.Blogs) == 0 {
		return "", fmt.Errorf("user %q has no blogs", info.User.Name)
	}

	blog := BlogHost(info.User.Blogs[0].URL)
	if blog == "" {
		blog = info.User.Blogs[0].Name
	}
	if blog == "" {
		return "", fmt.Errorf("user %q has a blog without url or name", info.User.Name)
	}

	slog.Info("Using blog", "blog", blog, "url", info.User.Blogs[0].URL)
	return blog, nil
}

// CreatePost submits p to blog and returns the id of the new post.
func (c *Client) CreatePost(ctx context.Context, blog string, p post.Post) (string, error) {
	form := url.Values{}
	for k, v := range p.Fields() {
		form.Set(k, v)
	}

	path := "/v2/blog/" + url.PathEscape(blog) + "/post"
	raw, err := c.do(ctx, http.MethodPost, path, form)
	if err != nil {
		return "", fmt.Errorf("failed to create %s post: %w", p.Type(), err)
	}

	id, err := ExtractPostID(raw)
	if err != nil {
		return "", fmt.Errorf("failed to create %s post: %w", p.Type(), err)
	}

	return id, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) (json.RawMessage, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("HTTP error: %s", resp.Status)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		if len(env.Errors) > 0 {
			return nil, fmt.Errorf("HTTP error: %s: %s %s", resp.Status, env.Meta.Msg, env.Errors)
		}
		return nil, fmt.Errorf("HTTP error: %s: %s", resp.Status, env.Meta.Msg)
	}

	return env.Response, nil
}

// BlogHost strips the scheme and trailing slash from a blog URL.
func BlogHost(blogURL string) string {
	host := strings.TrimSpace(blogURL)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimRight(host, "/")
}

// ExtractPostID reads the id of a created post. A response that is not an
// object, or an object without an id, is an error.
func ExtractPostID(raw json.RawMessage) (string, error) {
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingPostID, err)
	}

	response, ok := value.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: response is %s", ErrMissingPostID, strings.TrimSpace(string(raw)))
	}

	if id, ok := response["id_string"].(string); ok && id != "" {
		return id, nil
	}

	switch id := response["id"].(type) {
	case json.Number:
		if _, err := id.Int64(); err != nil {
			return "", fmt.Errorf("%w: id %s is not an integer", ErrMissingPostID, id)
		}
		return id.String(), nil
	case string:
		if id != "" {
			return id, nil
		}
	}

	return "", ErrMissingPostID
}
