package ports

import (
	"context"
	"io"

	"github.com/smartfarming/farm-client/internal/core/domain"
)

// AuthAPI covers the unauthenticated auth endpoints.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Session, error)
}

// ProfileAPI returns the identity bound to the current credential.
type ProfileAPI interface {
	Profile(ctx context.Context) (domain.Identity, error)
}

// CartAPI reads and mutates the current user's cart. Every call returns the
// cart as it is after the call.
type CartAPI interface {
	Cart(ctx context.Context) (domain.Cart, error)
	AddToCart(ctx context.Context, productID string, quantity int) (domain.Cart, error)
	RemoveFromCart(ctx context.Context, itemID string) (domain.Cart, error)
}

type WeatherAPI interface {
	Weather(ctx context.Context, location string) (domain.Weather, error)
}

type ForumAPI interface {
	Forum(ctx context.Context) ([]domain.ForumPost, error)
	CreatePost(ctx context.Context, title, content string) (domain.ForumPost, error)
	Vote(ctx context.Context, postID string, dir domain.VoteDirection) (domain.ForumPost, error)
}

// SchemeAPI lists schemes; the mutating calls are admin-only on the backend.
type SchemeAPI interface {
	Schemes(ctx context.Context, q domain.SchemeQuery) (domain.SchemePage, error)
	CreateScheme(ctx context.Context, s domain.Scheme) (domain.Scheme, error)
	UpdateScheme(ctx context.Context, id string, s domain.Scheme) (domain.Scheme, error)
	DeleteScheme(ctx context.Context, id string) error
}

type SoilTestAPI interface {
	SoilTests(ctx context.Context) ([]domain.SoilTest, error)
	CreateSoilTest(ctx context.Context, t domain.SoilTest) (domain.SoilTest, error)
}

type DetectionAPI interface {
	Detect(ctx context.Context, filename string, image io.Reader) (domain.Detection, error)
}
