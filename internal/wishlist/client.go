package wishlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// API is the set of backend calls the client front end relies on.
// It is implemented by *Client and can be faked in tests.
type API interface {
	FetchAll(ctx context.Context) ([]Wishlist, error)
	FetchAllFresh(ctx context.Context) ([]Wishlist, error)
	CreateWishlist(ctx context.Context, payload NewWishlist) (Wishlist, error)
	DeleteWishlist(ctx context.Context, id int64) error
	AddItem(ctx context.Context, wishlistID int64, payload NewItem) (Item, error)
	DeleteItem(ctx context.Context, id int64) error
	TogglePurchased(ctx context.Context, id int64) (PurchaseResult, error)
	SetRole(ctx context.Context, role Role) error
	Role() Role
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the wishlist REST backend. The role cookie set by the
// backend lives in the client's cookie jar and rides along on every call.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	now       func() time.Time
}

const (
	defaultBaseURL   = "http://127.0.0.1:8000"
	defaultUserAgent = "giftlist/0.1"
	defaultTimeout   = 10 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRateLimit caps outgoing requests per second. Zero or negative disables
// limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithHTTPClient uses a copy of hc for requests. The copy gets the client's
// cookie jar when hc has none; hc itself is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		copied := *hc
		if copied.Jar == nil {
			copied.Jar = c.http.Jar
		}
		c.http = &copied
	}
}

// NewClient builds a Client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
		limiter:   rate.NewLimiter(rate.Inf, 0),
		userAgent: defaultUserAgent,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchAll retrieves the full collection with nested items.
func (c *Client) FetchAll(ctx context.Context) ([]Wishlist, error) {
	return c.fetchAll(ctx, nil)
}

// FetchAllFresh is FetchAll with a cache-busting query parameter, used right
// after the role changes.
func (c *Client) FetchAllFresh(ctx context.Context) ([]Wishlist, error) {
	values := url.Values{}
	values.Set("t", strconv.FormatInt(c.now().UnixNano(), 10))
	return c.fetchAll(ctx, values)
}

func (c *Client) fetchAll(ctx context.Context, query url.Values) ([]Wishlist, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/wishlists/", RawQuery: query.Encode()}
	var payload []Wishlist
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = []Wishlist{}
	}
	return payload, nil
}

// CreateWishlist posts a new wishlist. Blank fields fail validation without
// a request.
func (c *Client) CreateWishlist(ctx context.Context, payload NewWishlist) (Wishlist, error) {
	if c == nil {
		return Wishlist{}, fmt.Errorf("client is nil")
	}
	payload.Normalize()
	if err := Validate(payload); err != nil {
		return Wishlist{}, err
	}
	var created Wishlist
	if err := c.do(ctx, http.MethodPost, "/wishlists/", payload, &created); err != nil {
		return Wishlist{}, err
	}
	return created, nil
}

// DeleteWishlist removes a wishlist and its items.
func (c *Client) DeleteWishlist(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, "/wishlists/"+strconv.FormatInt(id, 10), nil, nil)
}

// AddItem posts a new item under the wishlist.
func (c *Client) AddItem(ctx context.Context, wishlistID int64, payload NewItem) (Item, error) {
	if c == nil {
		return Item{}, fmt.Errorf("client is nil")
	}
	payload.Normalize()
	if err := Validate(payload); err != nil {
		return Item{}, err
	}
	var created Item
	path := "/wishlists/" + strconv.FormatInt(wishlistID, 10) + "/items/"
	if err := c.do(ctx, http.MethodPost, path, payload, &created); err != nil {
		return Item{}, err
	}
	return created, nil
}

// DeleteItem removes a single item.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, "/items/"+strconv.FormatInt(id, 10), nil, nil)
}

// TogglePurchased flips the purchased flag server-side and returns the new
// state.
func (c *Client) TogglePurchased(ctx context.Context, id int64) (PurchaseResult, error) {
	if c == nil {
		return PurchaseResult{}, fmt.Errorf("client is nil")
	}
	var result PurchaseResult
	path := "/items/" + strconv.FormatInt(id, 10) + "/purchase"
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return PurchaseResult{}, err
	}
	return result, nil
}

// SetRole asks the backend to change the role cookie.
func (c *Client) SetRole(ctx context.Context, role Role) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	body := struct {
		Role Role `json:"role"`
	}{Role: role}
	return c.do(ctx, http.MethodPost, "/set-role", body, nil)
}

// Role reports the role carried by the jar's role cookie, viewer when absent.
func (c *Client) Role() Role {
	if c == nil || c.http.Jar == nil {
		return RoleViewer
	}
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name != RoleCookie {
			continue
		}
		if role, err := ParseRole(ck.Value); err == nil {
			return role
		}
	}
	return RoleViewer
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Method: method, Path: rel.Path, Err: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Method: method, Path: rel.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody*2))
		return &HTTPError{Method: method, Path: rel.Path, Status: resp.StatusCode, Body: truncateBody(raw)}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
