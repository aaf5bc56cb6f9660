package review

import (
	"time"

	"devcamper/internal/domain/course"
	"devcamper/internal/query"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 10
)

// Review is a user's rating of a bootcamp. A user reviews a bootcamp at
// most once.
type Review struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Text       string              `json:"text"`
	Rating     int                 `json:"rating"`
	BootcampID string              `json:"-"`
	Bootcamp   *course.BootcampRef `json:"bootcamp"`
	UserID     string              `json:"user"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// QuerySchema lists the fields /reviews can be filtered and sorted by.
var QuerySchema = query.Schema{
	"id":        {Column: "r.id", Kind: query.KindText},
	"title":     {Column: "r.title", Kind: query.KindText},
	"text":      {Column: "r.text", Kind: query.KindText},
	"rating":    {Column: "r.rating", Kind: query.KindNumber},
	"bootcamp":  {Column: "r.bootcamp_id", Kind: query.KindText},
	"user":      {Column: "r.user_id", Kind: query.KindText},
	"createdAt": {Column: "r.created_at", Kind: query.KindTime},
}

// New creates a review of bootcampID written by userID.
func New(bootcampID, userID string) *Review {
	return &Review{
		ID:         uuid.NewString(),
		BootcampID: bootcampID,
		Bootcamp:   &course.BootcampRef{ID: bootcampID},
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
	}
}

// AverageRating is the mean of the given ratings, or nil when there are none.
func AverageRating(ratings []int) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	var sum int
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return &avg
}
