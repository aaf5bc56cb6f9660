package memory

import (
	"context"
	"math"

	"devcamper/internal/domain/bootcamp"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"
)

type bootcampRepository struct{ st *state }

func copyBootcamp(b bootcamp.Bootcamp) *bootcamp.Bootcamp {
	out := b
	out.Careers = append([]string(nil), b.Careers...)
	if b.Location != nil {
		loc := *b.Location
		out.Location = &loc
	}
	if b.AverageCost != nil {
		v := *b.AverageCost
		out.AverageCost = &v
	}
	if b.AverageRating != nil {
		v := *b.AverageRating
		out.AverageRating = &v
	}
	out.Courses = nil
	return &out
}

func bootcampFields(b *bootcamp.Bootcamp) map[string]any {
	m := map[string]any{
		"id":            b.ID,
		"name":          b.Name,
		"slug":          b.Slug,
		"description":   b.Description,
		"website":       b.Website,
		"phone":         b.Phone,
		"email":         b.Email,
		"address":       b.Address,
		"careers":       b.Careers,
		"averageRating": floatOrNil(b.AverageRating),
		"averageCost":   floatOrNil(b.AverageCost),
		"photo":         b.Photo,
		"housing":       b.Housing,
		"jobAssistance": b.JobAssistance,
		"jobGuarantee":  b.JobGuarantee,
		"acceptGi":      b.AcceptGi,
		"user":          b.UserID,
		"createdAt":     b.CreatedAt,
	}
	if l := b.Location; l != nil {
		m["location.street"] = l.Street
		m["location.city"] = l.City
		m["location.state"] = l.State
		m["location.zipcode"] = l.Zipcode
		m["location.country"] = l.Country
	}
	return m
}

func (r *bootcampRepository) Find(ctx context.Context, p query.Params) (query.Result[*bootcamp.Bootcamp], error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	all := make([]*bootcamp.Bootcamp, 0, len(r.st.t.bootcamps))
	for _, b := range r.st.t.bootcamps {
		all = append(all, copyBootcamp(b))
	}
	return find(all, p, bootcampFields), nil
}

func (r *bootcampRepository) FindByID(ctx context.Context, id string) (*bootcamp.Bootcamp, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	b, ok := r.st.t.bootcamps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyBootcamp(b), nil
}

func (r *bootcampRepository) FindWithinRadius(ctx context.Context, lat, lng, radius float64) ([]*bootcamp.Bootcamp, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var out []*bootcamp.Bootcamp
	for _, id := range sortedKeys(r.st.t.bootcamps) {
		b := r.st.t.bootcamps[id]
		if b.Location == nil {
			continue
		}
		if angle(lat, lng, b.Location.Lat(), b.Location.Lng()) <= radius {
			out = append(out, copyBootcamp(b))
		}
	}
	return out, nil
}

// angle is the central angle in radians between two points.
func angle(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}

func (r *bootcampRepository) Create(ctx context.Context, b *bootcamp.Bootcamp) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, other := range r.st.t.bootcamps {
		if other.ID == b.ID || other.Name == b.Name {
			return repositories.ErrDuplicate
		}
	}
	r.st.t.bootcamps[b.ID] = *copyBootcamp(*b)
	return nil
}

func (r *bootcampRepository) Update(ctx context.Context, b *bootcamp.Bootcamp) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	old, ok := r.st.t.bootcamps[b.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, other := range r.st.t.bootcamps {
		if other.ID != b.ID && other.Name == b.Name {
			return repositories.ErrDuplicate
		}
	}
	next := *copyBootcamp(*b)
	// averages are only written through SetAverage*
	next.AverageCost, next.AverageRating = old.AverageCost, old.AverageRating
	r.st.t.bootcamps[b.ID] = next
	return nil
}

func (r *bootcampRepository) Delete(ctx context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.t.bootcamps[id]; !ok {
		return repositories.ErrNotFound
	}
	r.st.t.deleteBootcamp(id)
	return nil
}

func (r *bootcampRepository) SetAverageCost(ctx context.Context, id string, cost *float64) error {
	return r.set(id, func(b *bootcamp.Bootcamp) { b.AverageCost = cost })
}

func (r *bootcampRepository) SetAverageRating(ctx context.Context, id string, rating *float64) error {
	return r.set(id, func(b *bootcamp.Bootcamp) { b.AverageRating = rating })
}

func (r *bootcampRepository) set(id string, fn func(*bootcamp.Bootcamp)) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.t.bootcamps[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(&b)
	r.st.t.bootcamps[id] = *copyBootcamp(b)
	return nil
}
