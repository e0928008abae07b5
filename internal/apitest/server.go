// Package apitest runs an in-memory wishlist backend for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/five82/giftlist/internal/wishlist"
)

// Request records one call the backend received.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
	Role   string
}

// Server is a fake backend. Mutations require the creator role cookie,
// mirroring the real service.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	lists     []wishlist.Wishlist
	nextID    int64
	requests  []Request
	failPaths map[string]int
}

// New starts a backend seeded with lists.
func New(lists ...wishlist.Wishlist) *Server {
	s := &Server{
		lists:     wishlist.Clone(lists),
		nextID:    1000,
		failPaths: make(map[string]int),
	}
	if s.lists == nil {
		s.lists = []wishlist.Wishlist{}
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Get("/wishlists/", s.listWishlists)
	r.Post("/wishlists/", s.requireCreator(s.createWishlist))
	r.Delete("/wishlists/{id}", s.requireCreator(s.deleteWishlist))
	r.Post("/wishlists/{id}/items/", s.requireCreator(s.createItem))
	r.Delete("/items/{id}", s.requireCreator(s.deleteItem))
	r.Post("/items/{id}/purchase", s.togglePurchase)
	r.Post("/set-role", s.setRole)

	s.Server = httptest.NewServer(r)
	return s
}

// FailNext makes the next request to path answer with status.
func (s *Server) FailNext(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPaths[path] = status
}

// Requests returns the calls seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many calls matched method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Lists returns a copy of the stored collection.
func (s *Server) Lists() []wishlist.Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wishlist.Clone(s.lists)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		role := ""
		if ck, err := r.Cookie(wishlist.RoleCookie); err == nil {
			role = ck.Value
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(body),
			Role:   role,
		})
		status, fail := s.failPaths[r.URL.Path]
		if fail {
			delete(s.failPaths, r.URL.Path)
		}
		s.mu.Unlock()

		if fail {
			http.Error(w, "injected failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireCreator(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(wishlist.RoleCookie)
		if err != nil || ck.Value != string(wishlist.RoleCreator) {
			http.Error(w, `{"detail":"Not authorized"}`, http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

func (s *Server) listWishlists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Lists())
}

func (s *Server) createWishlist(w http.ResponseWriter, r *http.Request) {
	var body wishlist.NewWishlist
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" || body.Person == "" {
		http.Error(w, "bad request", http.StatusUnprocessableEntity)
		return
	}
	s.mu.Lock()
	s.nextID++
	created := wishlist.Wishlist{ID: s.nextID, Name: body.Name, Person: body.Person, Items: []wishlist.Item{}}
	s.lists = append(s.lists, created)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) deleteWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, wl := range s.lists {
		if wl.ID == id {
			s.lists = append(s.lists[:i], s.lists[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Wishlist deleted"})
			return
		}
	}
	http.Error(w, `{"detail":"Wishlist not found"}`, http.StatusNotFound)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body wishlist.NewItem
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		http.Error(w, "bad request", http.StatusUnprocessableEntity)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lists {
		if s.lists[i].ID != id {
			continue
		}
		s.nextID++
		item := wishlist.Item{ID: s.nextID, Name: body.Name, Link: body.Link}
		s.lists[i].Items = append(s.lists[i].Items, item)
		writeJSON(w, http.StatusOK, item)
		return
	}
	http.Error(w, `{"detail":"Wishlist not found"}`, http.StatusNotFound)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lists {
		for j, item := range s.lists[i].Items {
			if item.ID == id {
				s.lists[i].Items = append(s.lists[i].Items[:j], s.lists[i].Items[j+1:]...)
				writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
				return
			}
		}
	}
	http.Error(w, `{"detail":"Item not found"}`, http.StatusNotFound)
}

func (s *Server) togglePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lists {
		for j := range s.lists[i].Items {
			item := &s.lists[i].Items[j]
			if item.ID != id {
				continue
			}
			item.Purchased = !item.Purchased
			if item.Purchased {
				now := time.Now().UTC().Truncate(time.Second)
				item.PurchaseDate = &now
			} else {
				item.PurchaseDate = nil
			}
			writeJSON(w, http.StatusOK, wishlist.PurchaseResult{Purchased: item.Purchased, PurchaseDate: item.PurchaseDate})
			return
		}
	}
	http.Error(w, `{"detail":"Item not found"}`, http.StatusNotFound)
}

func (s *Server) setRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	role, err := wishlist.ParseRole(body.Role)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: wishlist.RoleCookie, Value: string(role), Path: "/"})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "role": string(role)})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
