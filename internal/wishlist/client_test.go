package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("base = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:1234" {
		t.Fatalf("url = %q, want http://example.com:1234", u.String())
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_RequestsAndPayloads(t *testing.T) {
	t.Parallel()

	type seen struct {
		method, path, query, body, contentType, requestID string
	}
	var calls []seen

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		calls = append(calls, seen{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			body:        string(raw),
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get("X-Request-ID"),
		})
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wishlists/":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Gifts","person":"Mom","items":[{"id":7,"name":"Scarf","link":null,"purchased":false}]}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/wishlists/":
			_, _ = w.Write([]byte(`{"id":2,"name":"Gifts for Mom","person":"Mom","items":[]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/wishlists/2/items/":
			_, _ = w.Write([]byte(`{"id":9,"name":"Book","link":null,"purchased":false}`))
		case r.Method == http.MethodPost && r.URL.Path == "/items/9/purchase":
			_, _ = w.Write([]byte(`{"purchased":true,"purchase_date":"2024-12-01T10:00:00Z"}`))
		case r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{"message":"deleted"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/set-role":
			http.SetCookie(w, &http.Cookie{Name: RoleCookie, Value: "creator", Path: "/"})
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	c.now = func() time.Time { return time.Unix(0, 42) }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	lists, err := c.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(lists) != 1 || lists[0].Person != "Mom" || len(lists[0].Items) != 1 || lists[0].Items[0].HasLink() {
		t.Fatalf("FetchAll = %#v, want one list with one linkless item", lists)
	}

	if _, err := c.FetchAllFresh(ctx); err != nil {
		t.Fatalf("FetchAllFresh returned error: %v", err)
	}
	if calls[1].query != "t=42" {
		t.Fatalf("FetchAllFresh query = %q, want t=42", calls[1].query)
	}

	created, err := c.CreateWishlist(ctx, NewWishlist{Name: "  Gifts for Mom ", Person: " Mom"})
	if err != nil {
		t.Fatalf("CreateWishlist returned error: %v", err)
	}
	if created.ID != 2 {
		t.Fatalf("CreateWishlist id = %d, want 2", created.ID)
	}
	if calls[2].body != `{"name":"Gifts for Mom","person":"Mom"}` {
		t.Fatalf("CreateWishlist body = %s, want trimmed fields", calls[2].body)
	}
	if calls[2].contentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", calls[2].contentType)
	}

	blank := "   "
	if _, err := c.AddItem(ctx, 2, NewItem{Name: "Book", Link: &blank}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if calls[3].body != `{"name":"Book","link":null}` {
		t.Fatalf("AddItem body = %s, want null link", calls[3].body)
	}

	res, err := c.TogglePurchased(ctx, 9)
	if err != nil {
		t.Fatalf("TogglePurchased returned error: %v", err)
	}
	if !res.Purchased || res.PurchaseDate == nil {
		t.Fatalf("TogglePurchased = %#v, want purchased with date", res)
	}

	if err := c.DeleteItem(ctx, 9); err != nil {
		t.Fatalf("DeleteItem returned error: %v", err)
	}
	if err := c.DeleteWishlist(ctx, 2); err != nil {
		t.Fatalf("DeleteWishlist returned error: %v", err)
	}
	if calls[5].path != "/items/9" || calls[6].path != "/wishlists/2" {
		t.Fatalf("delete paths = %q, %q", calls[5].path, calls[6].path)
	}

	if got := c.Role(); got != RoleViewer {
		t.Fatalf("Role before switch = %q, want viewer", got)
	}
	if err := c.SetRole(ctx, RoleCreator); err != nil {
		t.Fatalf("SetRole returned error: %v", err)
	}
	if got := c.Role(); got != RoleCreator {
		t.Fatalf("Role after switch = %q, want creator", got)
	}

	ids := make(map[string]bool)
	for _, call := range calls {
		if call.requestID == "" || ids[call.requestID] {
			t.Fatalf("X-Request-ID %q missing or reused", call.requestID)
		}
		ids[call.requestID] = true
	}
}

func TestClient_ValidationSkipsRequest(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.CreateWishlist(context.Background(), NewWishlist{Name: "Gifts", Person: "  "})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CreateWishlist error = %v, want *ValidationError", err)
	}
	if verr.Fields["person"] != "is required" {
		t.Fatalf("Fields = %v, want person is required", verr.Fields)
	}

	_, err = c.AddItem(context.Background(), 1, NewItem{Name: "\t"})
	if !errors.As(err, &verr) || verr.Fields["name"] == "" {
		t.Fatalf("AddItem error = %v, want name validation error", err)
	}
	if hits != 0 {
		t.Fatalf("server hits = %d, want 0", hits)
	}
}

func TestClient_HTTPAndNetworkErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wishlists/":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/set-role":
			http.Error(w, "role service down", http.StatusBadGateway)
		default:
			http.Error(w, "nope", http.StatusForbidden)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchAll error = %v, want decode response error", err)
	}

	err = c.DeleteItem(context.Background(), 3)
	var herr *HTTPError
	if !errors.As(err, &herr) || herr.Status != http.StatusForbidden {
		t.Fatalf("DeleteItem error = %v, want 403 HTTPError", err)
	}

	err = c.SetRole(context.Background(), RoleViewer)
	if !errors.As(err, &herr) || !strings.Contains(herr.Body, "role service down") {
		t.Fatalf("SetRole error = %v, want body captured", err)
	}

	dead, err := NewClient("127.0.0.1:1", WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = dead.FetchAll(context.Background())
	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Fatalf("FetchAll error = %v, want *NetworkError", err)
	}
}

func TestClient_SetRoleRejectsUnknownRole(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.SetRole(context.Background(), Role("admin")); err == nil {
		t.Fatalf("SetRole(admin) returned nil error")
	}
}

func TestItemJSON_OptionalFields(t *testing.T) {
	var item Item
	if err := json.Unmarshal([]byte(`{"id":3,"name":"Lamp","link":"  https://shop.example/lamp ","purchased":true,"purchase_date":"2024-01-02T03:04:05Z"}`), &item); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !item.HasLink() || item.LinkText() != "https://shop.example/lamp" {
		t.Fatalf("LinkText = %q, want trimmed link", item.LinkText())
	}
	if item.PurchaseDate == nil || item.PurchaseDate.Year() != 2024 {
		t.Fatalf("PurchaseDate = %v, want 2024", item.PurchaseDate)
	}
}

func TestWithHTTPClient_LeavesCallerClientAlone(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: RoleCookie, Value: string(RoleCreator), Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(server.Close)

	hc := &http.Client{Timeout: 3 * time.Second}
	c, err := NewClient(server.URL, WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if hc.Jar != nil {
		t.Fatalf("caller's http.Client got a cookie jar installed")
	}
	if err := c.SetRole(context.Background(), RoleCreator); err != nil {
		t.Fatalf("SetRole returned error: %v", err)
	}
	if got := c.Role(); got != RoleCreator {
		t.Fatalf("Role() = %q, want creator from the client's own jar", got)
	}
}

func TestTruncateBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want int // byte length before the ellipsis
	}{
		{name: "short", body: "  not found  ", want: len("not found")},
		{name: "ascii cut", body: strings.Repeat("a", maxErrorBody+10), want: maxErrorBody},
		// 511 ASCII bytes then a 3-byte rune straddling the limit.
		{name: "multibyte boundary", body: strings.Repeat("a", maxErrorBody-1) + "€€", want: maxErrorBody - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateBody([]byte(tt.body))
			if !utf8.ValidString(got) {
				t.Fatalf("truncateBody produced invalid UTF-8: %q", got)
			}
			text := strings.TrimSuffix(got, "...")
			if len(text) != tt.want {
				t.Fatalf("kept %d bytes, want %d", len(text), tt.want)
			}
		})
	}
}
