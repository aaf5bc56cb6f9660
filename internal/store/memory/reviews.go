package memory

import (
	"context"

	"devcamper/internal/domain/review"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"
)

type reviewRepository struct{ st *state }

func (r *reviewRepository) load(rv review.Review) *review.Review {
	out := rv
	out.Bootcamp = r.st.t.ref(rv.BootcampID)
	return &out
}

func reviewFields(rv *review.Review) map[string]any {
	return map[string]any{
		"id":        rv.ID,
		"title":     rv.Title,
		"text":      rv.Text,
		"rating":    float64(rv.Rating),
		"bootcamp":  rv.BootcampID,
		"user":      rv.UserID,
		"createdAt": rv.CreatedAt,
	}
}

func (r *reviewRepository) Find(ctx context.Context, p query.Params) (query.Result[*review.Review], error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	all := make([]*review.Review, 0, len(r.st.t.reviews))
	for _, rv := range r.st.t.reviews {
		all = append(all, r.load(rv))
	}
	return find(all, p, reviewFields), nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	rv, ok := r.st.t.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.load(rv), nil
}

func (r *reviewRepository) Ratings(ctx context.Context, bootcampID string) ([]int, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var out []int
	for _, id := range sortedKeys(r.st.t.reviews) {
		if rv := r.st.t.reviews[id]; rv.BootcampID == bootcampID {
			out = append(out, rv.Rating)
		}
	}
	return out, nil
}

func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.t.bootcamps[rv.BootcampID]; !ok {
		return repositories.ErrNotFound
	}
	for _, other := range r.st.t.reviews {
		if other.ID == rv.ID || (other.BootcampID == rv.BootcampID && other.UserID == rv.UserID) {
			return repositories.ErrDuplicate
		}
	}
	r.st.t.reviews[rv.ID] = *rv
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.t.reviews[rv.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.st.t.reviews[rv.ID] = *rv
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.t.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.st.t.reviews, id)
	return nil
}
