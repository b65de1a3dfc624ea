// Package fakeapi is an in-memory stand-in for the farm backend, used by
// tests that need real HTTP round trips. It speaks the same REST contract as
// the production backend: bearer JWT auth, admin-only scheme mutations, and
// {"message": "..."} error bodies.
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/smartfarming/farm-client/internal/core/domain"
)

const defaultSecret = "fakeapi-secret"

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	secret string

	mu        sync.Mutex
	users     map[string]*user // by email
	products  map[string]product
	carts     map[string]*domain.Cart
	weather   map[string]domain.Weather
	posts     []domain.ForumPost
	schemes   []domain.Scheme
	soilTests map[string][]domain.SoilTest
	seen      []RequestRecord
	faults    map[string]fault
	nextID    int
}

// RequestRecord is what the fake saw for one request.
type RequestRecord struct {
	Method        string
	Path          string
	Authorization string
}

// New starts a fake backend. Callers must Close it.
func New() *Server {
	s := &Server{
		secret:    defaultSecret,
		users:     make(map[string]*user),
		products:  make(map[string]product),
		carts:     make(map[string]*domain.Cart),
		faults:    make(map[string]fault),
		weather:   make(map[string]domain.Weather),
		soilTests: make(map[string][]domain.SoilTest),
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// BaseURL is the address to configure the API client with.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Requests returns every request seen so far.
func (s *Server) Requests() []RequestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RequestRecord, len(s.seen))
	copy(out, s.seen)
	return out
}

// LastRequest returns the most recent request to path.
func (s *Server) LastRequest(path string) (RequestRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.seen) - 1; i >= 0; i-- {
		if s.seen[i].Path == path {
			return s.seen[i], true
		}
	}
	return RequestRecord{}, false
}

func (s *Server) router() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(s.record)

	api := e.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)

	authed := api.Group("", Auth(s.secret))
	authed.GET("/user/profile", s.profile)
	authed.GET("/cart", s.getCart)
	authed.POST("/cart", s.addToCart)
	authed.DELETE("/cart/:id", s.removeFromCart)
	authed.POST("/forum", s.createPost)
	authed.POST("/forum/:id/:direction", s.vote)
	authed.GET("/soil-tests", s.listSoilTests)
	authed.POST("/soil-tests", s.createSoilTest)
	authed.POST("/detection", s.detect)

	admin := authed.Group("", RequireRole(string(domain.RoleAdmin)))
	admin.POST("/schemes", s.createScheme)
	admin.PUT("/schemes/:id", s.updateScheme)
	admin.DELETE("/schemes/:id", s.deleteScheme)

	api.GET("/weather", s.getWeather)
	api.GET("/forum", s.listPosts)
	api.GET("/schemes", s.listSchemes)

	return e
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		s.mu.Lock()
		s.seen = append(s.seen, RequestRecord{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		f, faulty := s.faults[r.URL.Path]
		if faulty {
			delete(s.faults, r.URL.Path)
		}
		s.mu.Unlock()
		if faulty {
			return c.Blob(f.status, echo.MIMEApplicationJSON, []byte(f.body))
		}
		return next(c)
	}
}

type fault struct {
	status int
	body   string
}

// FailNext makes the next request to path (e.g. "/api/weather") answer with
// status and the raw JSON body.
func (s *Server) FailNext(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[path] = fault{status: status, body: body}
}

func (s *Server) newID(prefix string) string {
	s.nextID++
	return prefix + "-" + strconv.Itoa(s.nextID)
}
