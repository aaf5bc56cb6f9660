package memory

import (
	"context"

	"devcamper/internal/domain/course"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"
)

type courseRepository struct{ st *state }

func (r *courseRepository) load(c course.Course) *course.Course {
	out := c
	out.Bootcamp = r.st.t.ref(c.BootcampID)
	return &out
}

func courseFields(c *course.Course) map[string]any {
	return map[string]any{
		"id":                   c.ID,
		"title":                c.Title,
		"description":          c.Description,
		"weeks":                c.Weeks,
		"tuition":              c.Tuition,
		"minimumSkill":         string(c.MinimumSkill),
		"scholarshipAvailable": c.ScholarshipAvailable,
		"bootcamp":             c.BootcampID,
		"user":                 c.UserID,
		"createdAt":            c.CreatedAt,
	}
}

func (r *courseRepository) Find(ctx context.Context, p query.Params) (query.Result[*course.Course], error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	all := make([]*course.Course, 0, len(r.st.t.courses))
	for _, c := range r.st.t.courses {
		all = append(all, r.load(c))
	}
	return find(all, p, courseFields), nil
}

func (r *courseRepository) FindByID(ctx context.Context, id string) (*course.Course, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	c, ok := r.st.t.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.load(c), nil
}

func (r *courseRepository) FindByBootcamp(ctx context.Context, bootcampID string) ([]*course.Course, error) {
	byID, err := r.FindByBootcamps(ctx, []string{bootcampID})
	if err != nil {
		return nil, err
	}
	return byID[bootcampID], nil
}

func (r *courseRepository) FindByBootcamps(ctx context.Context, bootcampIDs []string) (map[string][]*course.Course, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	want := make(map[string]bool, len(bootcampIDs))
	for _, id := range bootcampIDs {
		want[id] = true
	}
	out := make(map[string][]*course.Course)
	for _, id := range sortedKeys(r.st.t.courses) {
		c := r.st.t.courses[id]
		if want[c.BootcampID] {
			out[c.BootcampID] = append(out[c.BootcampID], r.load(c))
		}
	}
	return out, nil
}

func (r *courseRepository) Tuitions(ctx context.Context, bootcampID string) ([]float64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var out []float64
	for _, id := range sortedKeys(r.st.t.courses) {
		if c := r.st.t.courses[id]; c.BootcampID == bootcampID {
			out = append(out, c.Tuition)
		}
	}
	return out, nil
}

func (r *courseRepository) Create(ctx context.Context, c *course.Course) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.t.bootcamps[c.BootcampID]; !ok {
		return repositories.ErrNotFound
	}
	if _, ok := r.st.t.courses[c.ID]; ok {
		return repositories.ErrDuplicate
	}
	r.st.t.courses[c.ID] = *c
	return nil
}

func (r *courseRepository) Update(ctx context.Context, c *course.Course) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.t.courses[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.st.t.courses[c.ID] = *c
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.t.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.st.t.courses, id)
	return nil
}
