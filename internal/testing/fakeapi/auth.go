package fakeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartfarming/farm-client/internal/core/domain"
)

const tokenTTL = 24 * time.Hour

type user struct {
	identity     domain.Identity
	passwordHash []byte
}

type authResponse struct {
	User  domain.Identity `json:"user"`
	Token string          `json:"token"`
}

// AddUser registers an account directly and returns a valid token for it.
func (s *Server) AddUser(identity domain.Identity, password string) string {
	if identity.Role == "" {
		identity.Role = domain.RoleUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	if identity.ID == "" {
		identity.ID = s.newID("user")
	}
	s.users[strings.ToLower(identity.Email)] = &user{identity: identity, passwordHash: hash}
	s.mu.Unlock()

	token, err := s.issueToken(identity, time.Now().Add(tokenTTL))
	if err != nil {
		panic(err)
	}
	return token
}

// IssueToken signs a token for identity that expires at exp.
func (s *Server) IssueToken(identity domain.Identity, exp time.Time) string {
	token, err := s.issueToken(identity, exp)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) issueToken(identity domain.Identity, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"role":  string(identity.Role),
		"exp":   exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

func (s *Server) login(c echo.Context) error {
	var req domain.Credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}

	s.mu.Lock()
	u, ok := s.users[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := s.issueToken(u.identity, time.Now().Add(tokenTTL))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: u.identity, Token: token})
}

func (s *Server) register(c echo.Context) error {
	var req domain.Registration
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Please enter all fields")
	}

	s.mu.Lock()
	_, exists := s.users[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
	}

	identity := domain.Identity{
		Name:     req.Name,
		Email:    req.Email,
		Role:     domain.RoleUser,
		Location: req.Location,
		Language: req.Language,
	}
	token := s.AddUser(identity, req.Password)

	s.mu.Lock()
	identity = s.users[strings.ToLower(req.Email)].identity
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, authResponse{User: identity, Token: token})
}

func (s *Server) profile(c echo.Context) error {
	u, err := s.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"user": u.identity})
}

func (s *Server) currentUser(c echo.Context) (*user, error) {
	email, _ := c.Get("email").(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return u, nil
}
