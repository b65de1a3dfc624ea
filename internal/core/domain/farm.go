package domain

import "time"

// Weather is the current conditions for a location.
type Weather struct {
	Location    string   `json:"location"`
	Temperature float64  `json:"temperature"`
	Weather     string   `json:"weather"`
	Description string   `json:"description"`
	Humidity    float64  `json:"humidity"`
	WindSpeed   float64  `json:"windSpeed"`
	Alerts      []string `json:"alerts"`
}

// ForumPost is a community forum thread.
type ForumPost struct {
	ID        string   `json:"_id"`
	Title     string   `json:"title"     validate:"required"`
	Content   string   `json:"content"   validate:"required"`
	Author    string   `json:"author,omitempty"`
	Upvotes   []string `json:"upvotes"`
	Downvotes []string `json:"downvotes"`
}

// Score is upvotes minus downvotes.
func (p ForumPost) Score() int {
	return len(p.Upvotes) - len(p.Downvotes)
}

// VoteDirection selects the forum vote endpoint.
type VoteDirection string

const (
	VoteUp   VoteDirection = "upvote"
	VoteDown VoteDirection = "downvote"
)

// Scheme is a government scheme entry.
type Scheme struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category"    validate:"required"`
	Eligibility string `json:"eligibility,omitempty"`
	Benefits    string `json:"benefits,omitempty"`
	Link        string `json:"link,omitempty" validate:"omitempty,url"`
}

// SchemeQuery filters GET /schemes.
type SchemeQuery struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

// SchemePage is one page of scheme results.
type SchemePage struct {
	Results    []Scheme `json:"results"`
	TotalPages int      `json:"totalPages"`
}

// SoilTest is a recorded soil sample and the recommendations derived from it.
type SoilTest struct {
	ID              string    `json:"_id,omitempty"`
	Location        string    `json:"location,omitempty"`
	PH              float64   `json:"ph"            validate:"gte=0,lte=14"`
	Nitrogen        float64   `json:"nitrogen"      validate:"gte=0"`
	Phosphorus      float64   `json:"phosphorus"    validate:"gte=0"`
	Potassium       float64   `json:"potassium"     validate:"gte=0"`
	OrganicMatter   float64   `json:"organicMatter" validate:"gte=0"`
	Recommendations []string  `json:"recommendations,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// Detection is the pest/disease analysis of an uploaded image.
type Detection struct {
	Pest       string  `json:"pest,omitempty"`
	Disease    string  `json:"disease,omitempty"`
	Confidence float64 `json:"confidence"`
	Treatment  string  `json:"treatment,omitempty"`
}
