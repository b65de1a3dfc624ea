package fakeapi

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartfarming/farm-client/internal/core/domain"
)

const defaultSchemeLimit = 10

type product struct {
	name  string
	price float64
}

// AddProduct makes productID addable to carts with the given name and price.
func (s *Server) AddProduct(productID, name string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[productID] = product{name: name, price: price}
}

// SetCart replaces the cart of the account registered under email.
func (s *Server) SetCart(email string, cart domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cart
	s.carts[strings.ToLower(email)] = &c
}

// SetWeather stores the conditions returned for location.
func (s *Server) SetWeather(w domain.Weather) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weather[strings.ToLower(w.Location)] = w
}

// AddScheme seeds a scheme and returns it with its assigned id.
func (s *Server) AddScheme(sc domain.Scheme) domain.Scheme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.ID == "" {
		sc.ID = s.newID("scheme")
	}
	s.schemes = append(s.schemes, sc)
	return sc
}

// AddPost seeds a forum post and returns it with its assigned id.
func (s *Server) AddPost(p domain.ForumPost) domain.ForumPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.newID("post")
	}
	s.posts = append(s.posts, normalizePost(p))
	return p
}

// ---- cart

func (s *Server) cartFor(email string) *domain.Cart {
	key := strings.ToLower(email)
	c, ok := s.carts[key]
	if !ok {
		c = &domain.Cart{Items: []domain.CartItem{}}
		s.carts[key] = c
	}
	return c
}

func (s *Server) getCart(c echo.Context) error {
	email, _ := c.Get("email").(string)
	s.mu.Lock()
	cart := *s.cartFor(email)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, cart)
}

func (s *Server) addToCart(c echo.Context) error {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil || req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Product is required")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	email, _ := c.Get("email").(string)

	s.mu.Lock()
	cart := s.cartFor(email)
	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		p := s.products[req.ProductID]
		cart.Items = append(cart.Items, domain.CartItem{
			ID:        s.newID("item"),
			ProductID: req.ProductID,
			Name:      p.name,
			Price:     p.price,
			Quantity:  req.Quantity,
		})
	}
	out := *cart
	s.mu.Unlock()
	return c.JSON(http.StatusOK, out)
}

func (s *Server) removeFromCart(c echo.Context) error {
	email, _ := c.Get("email").(string)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(email)
	kept := cart.Items[:0]
	found := false
	for _, it := range cart.Items {
		if it.ID == id {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found in cart")
	}
	cart.Items = kept
	return c.JSON(http.StatusOK, *cart)
}

// ---- weather

func (s *Server) getWeather(c echo.Context) error {
	location := strings.TrimSpace(c.QueryParam("location"))
	if location == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Location is required")
	}
	s.mu.Lock()
	w, ok := s.weather[strings.ToLower(location)]
	s.mu.Unlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Location not found")
	}
	return c.JSON(http.StatusOK, w)
}

// ---- forum

func normalizePost(p domain.ForumPost) domain.ForumPost {
	if p.Upvotes == nil {
		p.Upvotes = []string{}
	}
	if p.Downvotes == nil {
		p.Downvotes = []string{}
	}
	return p
}

func (s *Server) listPosts(c echo.Context) error {
	s.mu.Lock()
	out := make([]domain.ForumPost, len(s.posts))
	copy(out, s.posts)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createPost(c echo.Context) error {
	var req domain.ForumPost
	if err := c.Bind(&req); err != nil || req.Title == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title and content are required")
	}
	u, err := s.currentUser(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	post := normalizePost(domain.ForumPost{
		ID:      s.newID("post"),
		Title:   req.Title,
		Content: req.Content,
		Author:  u.identity.Name,
	})
	s.posts = append([]domain.ForumPost{post}, s.posts...)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, post)
}

func (s *Server) vote(c echo.Context) error {
	dir := domain.VoteDirection(c.Param("direction"))
	if dir != domain.VoteUp && dir != domain.VoteDown {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	email, _ := c.Get("email").(string)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != id {
			continue
		}
		p := &s.posts[i]
		p.Upvotes = without(p.Upvotes, email)
		p.Downvotes = without(p.Downvotes, email)
		if dir == domain.VoteUp {
			p.Upvotes = append(p.Upvotes, email)
		} else {
			p.Downvotes = append(p.Downvotes, email)
		}
		return c.JSON(http.StatusOK, *p)
	}
	return echo.NewHTTPError(http.StatusNotFound, "Post not found")
}

func without(list []string, v string) []string {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// ---- schemes

func (s *Server) listSchemes(c echo.Context) error {
	search := strings.ToLower(c.QueryParam("search"))
	category := c.QueryParam("category")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultSchemeLimit
	}

	s.mu.Lock()
	var matched []domain.Scheme
	for _, sc := range s.schemes {
		if category != "" && sc.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(sc.Name), search) &&
			!strings.Contains(strings.ToLower(sc.Description), search) {
			continue
		}
		matched = append(matched, sc)
	}
	s.mu.Unlock()

	totalPages := (len(matched) + limit - 1) / limit
	start := (page - 1) * limit
	results := []domain.Scheme{}
	if start < len(matched) {
		end := min(start+limit, len(matched))
		results = matched[start:end]
	}
	return c.JSON(http.StatusOK, domain.SchemePage{Results: results, TotalPages: totalPages})
}

func (s *Server) createScheme(c echo.Context) error {
	var req domain.Scheme
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	req.ID = ""
	return c.JSON(http.StatusCreated, s.AddScheme(req))
}

func (s *Server) updateScheme(c echo.Context) error {
	var req domain.Scheme
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.schemes {
		if s.schemes[i].ID == id {
			req.ID = id
			s.schemes[i] = req
			return c.JSON(http.StatusOK, req)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Scheme not found")
}

func (s *Server) deleteScheme(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.schemes {
		if s.schemes[i].ID == id {
			s.schemes = append(s.schemes[:i], s.schemes[i+1:]...)
			return c.JSON(http.StatusOK, map[string]string{"message": "Scheme removed"})
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Scheme not found")
}

// ---- soil tests

func (s *Server) listSoilTests(c echo.Context) error {
	email, _ := c.Get("email").(string)
	s.mu.Lock()
	tests := append([]domain.SoilTest{}, s.soilTests[strings.ToLower(email)]...)
	s.mu.Unlock()
	sort.SliceStable(tests, func(i, j int) bool { return tests[i].CreatedAt.After(tests[j].CreatedAt) })
	return c.JSON(http.StatusOK, tests)
}

func (s *Server) createSoilTest(c echo.Context) error {
	var req domain.SoilTest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}
	if req.PH < 0 || req.PH > 14 {
		return echo.NewHTTPError(http.StatusBadRequest, "pH must be between 0 and 14")
	}
	email, _ := c.Get("email").(string)

	req.Recommendations = soilRecommendations(req)
	req.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	req.ID = s.newID("soil")
	key := strings.ToLower(email)
	s.soilTests[key] = append(s.soilTests[key], req)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, map[string]any{"soilTest": req})
}

func soilRecommendations(t domain.SoilTest) []string {
	var out []string
	switch {
	case t.PH < 6:
		out = append(out, "Soil is acidic. Apply agricultural lime.")
	case t.PH > 7.5:
		out = append(out, "Soil is alkaline. Apply gypsum or sulfur.")
	}
	if t.Nitrogen < 280 {
		out = append(out, "Nitrogen is low. Apply urea or compost.")
	}
	if t.Phosphorus < 10 {
		out = append(out, "Phosphorus is low. Apply single super phosphate.")
	}
	if t.Potassium < 110 {
		out = append(out, "Potassium is low. Apply muriate of potash.")
	}
	if t.OrganicMatter < 0.5 {
		out = append(out, "Organic matter is low. Add farmyard manure.")
	}
	if len(out) == 0 {
		out = append(out, "Soil is balanced. Maintain current practices.")
	}
	return out
}

// ---- detection

func (s *Server) detect(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No image uploaded")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	n, err := io.Copy(io.Discard, f)
	if err != nil {
		return err
	}
	if n == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Uploaded image is empty")
	}
	return c.JSON(http.StatusOK, domain.Detection{
		Pest:       "Aphids",
		Disease:    "Leaf curl",
		Confidence: 0.87,
		Treatment:  "Spray neem oil every 7 days.",
	})
}
