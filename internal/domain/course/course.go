package course

import (
	"math"
	"time"

	"devcamper/internal/query"

	"github.com/google/uuid"
)

// Course is a course offered by a bootcamp.
type Course struct {
	ID                   string       `json:"id"`
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Weeks                string       `json:"weeks"`
	Tuition              float64      `json:"tuition"`
	MinimumSkill         Skill        `json:"minimumSkill"`
	ScholarshipAvailable bool         `json:"scholarshipAvailable"`
	BootcampID           string       `json:"-"`
	Bootcamp             *BootcampRef `json:"bootcamp"`
	UserID               string       `json:"user"`
	CreatedAt            time.Time    `json:"createdAt"`
}

// BootcampRef is the part of a bootcamp embedded in course and review
// responses.
type BootcampRef struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Skill is the minimum skill level a course expects.
type Skill string

const (
	SkillBeginner     Skill = "beginner"
	SkillIntermediate Skill = "intermediate"
	SkillAdvanced     Skill = "advanced"
)

// QuerySchema lists the fields /courses can be filtered and sorted by.
// Columns are qualified because course reads join their bootcamp.
var QuerySchema = query.Schema{
	"id":                   {Column: "c.id", Kind: query.KindText},
	"title":                {Column: "c.title", Kind: query.KindText},
	"description":          {Column: "c.description", Kind: query.KindText},
	"weeks":                {Column: "c.weeks", Kind: query.KindText},
	"tuition":              {Column: "c.tuition", Kind: query.KindNumber},
	"minimumSkill":         {Column: "c.minimum_skill", Kind: query.KindText},
	"scholarshipAvailable": {Column: "c.scholarship_available", Kind: query.KindBool},
	"bootcamp":             {Column: "c.bootcamp_id", Kind: query.KindText},
	"user":                 {Column: "c.user_id", Kind: query.KindText},
	"createdAt":            {Column: "c.created_at", Kind: query.KindTime},
}

// New creates a course attached to a bootcamp and owned by userID.
func New(bootcampID, userID string) *Course {
	return &Course{
		ID:         uuid.NewString(),
		BootcampID: bootcampID,
		Bootcamp:   &BootcampRef{ID: bootcampID},
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
	}
}

// AverageCost rounds the mean tuition up to the next multiple of ten, the
// figure shown as a bootcamp's averageCost. It returns nil for no courses.
func AverageCost(tuitions []float64) *float64 {
	if len(tuitions) == 0 {
		return nil
	}
	var sum float64
	for _, t := range tuitions {
		sum += t
	}
	avg := math.Ceil(sum/float64(len(tuitions))/10) * 10
	return &avg
}
