package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/testing/fakeapi"
)

func TestClient_AuthorizationFollowsCredential(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.SetWeather(domain.Weather{Location: "Pune", Temperature: 31})
	c := New(srv.BaseURL())
	ctx := context.Background()

	if _, err := c.Weather(ctx, "Pune"); err != nil {
		t.Fatalf("weather: %v", err)
	}
	if rec, _ := srv.LastRequest("/api/weather"); rec.Authorization != "" {
		t.Fatalf("expected no header before login, got %q", rec.Authorization)
	}

	c.SetCredential("T1")
	if _, err := c.Weather(ctx, "Pune"); err != nil {
		t.Fatalf("weather: %v", err)
	}
	if rec, _ := srv.LastRequest("/api/weather"); rec.Authorization != "Bearer T1" {
		t.Fatalf("expected bearer T1, got %q", rec.Authorization)
	}

	c.ClearCredential()
	if _, err := c.Weather(ctx, "Pune"); err != nil {
		t.Fatalf("weather: %v", err)
	}
	if rec, _ := srv.LastRequest("/api/weather"); rec.Authorization != "" {
		t.Fatalf("expected header removed after logout, got %q", rec.Authorization)
	}
}

func TestClient_ErrorMessageExtraction(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Location not found"}`, "Location not found"},
		{"error field", `{"error":"Upstream unavailable"}`, "Upstream unavailable"},
		{"message wins", `{"message":"first","error":"second"}`, "first"},
		{"no body", ``, ""},
		{"not json", `<html>bad gateway</html>`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := fakeapi.New()
			defer srv.Close()
			srv.FailNext("/api/weather", http.StatusNotFound, tc.body)

			_, err := New(srv.BaseURL()).Weather(context.Background(), "Pune")
			var apiErr *domain.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != http.StatusNotFound || apiErr.Message != tc.want {
				t.Fatalf("unexpected error %+v", apiErr)
			}
		})
	}
}

func TestClient_LoginReturnsSession(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser(domain.Identity{Name: "Asha", Email: "asha@farm.in", Location: "Pune"}, "secret1")

	c := New(srv.BaseURL())
	sess, err := c.Login(context.Background(), domain.Credentials{Email: "asha@farm.in", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token == "" || sess.Identity.Name != "Asha" || sess.Identity.Role != domain.RoleUser {
		t.Fatalf("unexpected session %+v", sess)
	}
	if _, bound := c.Credential(); bound {
		t.Fatalf("login must not bind the credential by itself")
	}

	_, err = c.Login(context.Background(), domain.Credentials{Email: "asha@farm.in", Password: "wrong"})
	if domain.UserMessage(err) != "Invalid credentials" {
		t.Fatalf("expected backend message, got %v", err)
	}
}

func TestClient_FlatAuthResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"u1","name":"Ravi","location":"Nashik","token":"tok"}`))
	}))
	defer ts.Close()

	sess, err := New(ts.URL).Login(context.Background(), domain.Credentials{Email: "r@farm.in", Password: "x"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Identity.ID != "u1" || sess.Identity.Location != "Nashik" || sess.Token != "tok" {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestClient_MissingTokenIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"name":"Ravi"}}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL).Login(context.Background(), domain.Credentials{})
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("expected bad gateway, got %v", err)
	}
}

func TestClient_CartRoundTrip(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	tok := srv.AddUser(domain.Identity{Name: "Asha", Email: "asha@farm.in"}, "secret1")
	srv.AddProduct("p1", "Neem oil", 250)

	c := New(srv.BaseURL())
	c.SetCredential(tok)
	ctx := context.Background()

	cart, err := c.AddToCart(ctx, "p1", 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err = c.AddToCart(ctx, "p1", 3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if cart.Count() != 5 || cart.Total() != 1250 {
		t.Fatalf("unexpected cart %+v", cart)
	}
	cart, err = c.RemoveFromCart(ctx, cart.Items[0].ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if cart.Count() != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestClient_SchemesQuery(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	for _, name := range []string{"Soil Health Card", "Solar pump", "Crop insurance"} {
		srv.AddScheme(domain.Scheme{Name: name, Description: name, Category: "subsidy"})
	}
	srv.AddScheme(domain.Scheme{Name: "Kisan credit", Description: "loan", Category: "credit"})

	page, err := New(srv.BaseURL()).Schemes(context.Background(), domain.SchemeQuery{Category: "subsidy", Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("schemes: %v", err)
	}
	if page.TotalPages != 2 || len(page.Results) != 1 || page.Results[0].Name != "Crop insurance" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestClient_DeleteSchemeForbiddenForUser(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	tok := srv.AddUser(domain.Identity{Name: "U", Email: "u@farm.in"}, "secret1")
	sc := srv.AddScheme(domain.Scheme{Name: "X", Description: "x", Category: "c"})

	c := New(srv.BaseURL())
	c.SetCredential(tok)
	err := c.DeleteScheme(context.Background(), sc.ID)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestClient_DetectUploadsMultipart(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	tok := srv.AddUser(domain.Identity{Name: "Asha", Email: "asha@farm.in"}, "secret1")

	c := New(srv.BaseURL())
	c.SetCredential(tok)
	det, err := c.Detect(context.Background(), "/tmp/leaf.jpg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if det.Pest == "" || det.Confidence <= 0 {
		t.Fatalf("unexpected detection %+v", det)
	}
}

func TestClient_VoteRejectsUnknownDirection(t *testing.T) {
	_, err := New("http://127.0.0.1:0").Vote(context.Background(), "p1", "sideways")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
