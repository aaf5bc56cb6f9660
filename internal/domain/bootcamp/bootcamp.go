package bootcamp

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"devcamper/internal/domain/course"
	"devcamper/internal/query"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultPhoto is stored for bootcamps without an uploaded photo.
const DefaultPhoto = "no-photo.jpg"

// Careers a bootcamp can prepare students for.
var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// Bootcamp is a listed coding bootcamp.
type Bootcamp struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Website       string    `json:"website,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	Location      *Location `json:"location,omitempty"`
	Careers       []string  `json:"careers"`
	AverageRating *float64  `json:"averageRating,omitempty"`
	AverageCost   *float64  `json:"averageCost,omitempty"`
	Photo         string    `json:"photo"`
	Housing       bool      `json:"housing"`
	JobAssistance bool      `json:"jobAssistance"`
	JobGuarantee  bool      `json:"jobGuarantee"`
	AcceptGi      bool      `json:"acceptGi"`
	UserID        string    `json:"user"`
	CreatedAt     time.Time `json:"createdAt"`

	Courses []*course.Course `json:"courses,omitempty"`
}

// Location is a GeoJSON point with the geocoded address parts.
type Location struct {
	Type             string     `json:"type"`
	Coordinates      [2]float64 `json:"coordinates"` // [lng, lat]
	FormattedAddress string     `json:"formattedAddress,omitempty"`
	Street           string     `json:"street,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Zipcode          string     `json:"zipcode,omitempty"`
	Country          string     `json:"country,omitempty"`
}

func (l *Location) Lng() float64 { return l.Coordinates[0] }
func (l *Location) Lat() float64 { return l.Coordinates[1] }

// QuerySchema lists the fields /bootcamps can be filtered and sorted by.
var QuerySchema = query.Schema{
	"id":               {Column: "id", Kind: query.KindText},
	"name":             {Column: "name", Kind: query.KindText},
	"slug":             {Column: "slug", Kind: query.KindText},
	"description":      {Column: "description", Kind: query.KindText},
	"website":          {Column: "website", Kind: query.KindText},
	"phone":            {Column: "phone", Kind: query.KindText},
	"email":            {Column: "email", Kind: query.KindText},
	"address":          {Column: "address", Kind: query.KindText},
	"location.street":  {Column: "street", Kind: query.KindText},
	"location.city":    {Column: "city", Kind: query.KindText},
	"location.state":   {Column: "state", Kind: query.KindText},
	"location.zipcode": {Column: "zipcode", Kind: query.KindText},
	"location.country": {Column: "country", Kind: query.KindText},
	"careers":          {Column: "careers", Kind: query.KindTextArray},
	"averageRating":    {Column: "average_rating", Kind: query.KindNumber},
	"averageCost":      {Column: "average_cost", Kind: query.KindNumber},
	"photo":            {Column: "photo", Kind: query.KindText},
	"housing":          {Column: "housing", Kind: query.KindBool},
	"jobAssistance":    {Column: "job_assistance", Kind: query.KindBool},
	"jobGuarantee":     {Column: "job_guarantee", Kind: query.KindBool},
	"acceptGi":         {Column: "accept_gi", Kind: query.KindBool},
	"user":             {Column: "user_id", Kind: query.KindText},
	"createdAt":        {Column: "created_at", Kind: query.KindTime},

	// select only
	"location": {},
	"courses":  {},
}

// New creates a bootcamp owned by userID with the model defaults applied.
func New(name, userID string) *Bootcamp {
	b := &Bootcamp{
		ID:        uuid.NewString(),
		Photo:     DefaultPhoto,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	b.Rename(name)
	return b
}

// Rename sets the name and keeps the slug in step with it.
func (b *Bootcamp) Rename(name string) {
	b.Name = strings.TrimSpace(name)
	b.Slug = Slugify(b.Name)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, folds accents and joins words with dashes:
// "Devworks Bootcamp!" becomes "devworks-bootcamp".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	slug := nonSlug.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}
