package memory

import (
	"context"

	"devcamper/internal/domain/user"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"
)

type userRepository struct{ st *state }

func userFields(u *user.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role":      string(u.Role),
		"createdAt": u.CreatedAt,
	}
}

func (r *userRepository) Find(ctx context.Context, p query.Params) (query.Result[*user.User], error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	all := make([]*user.User, 0, len(r.st.t.users))
	for _, u := range r.st.t.users {
		u := u
		all = append(all, &u)
	}
	return find(all, p, userFields), nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	u, ok := r.st.t.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	email = user.NormalizeEmail(email)
	for _, u := range r.st.t.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, other := range r.st.t.users {
		if other.ID == u.ID || other.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	r.st.t.users[u.ID] = *u
	return nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.t.users[u.ID]; !ok {
		return repositories.ErrNotFound
	}
	for _, other := range r.st.t.users {
		if other.ID != u.ID && other.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	r.st.t.users[u.ID] = *u
	return nil
}

// Delete removes the user and everything they own.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.t.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.st.t.users, id)
	for bid, b := range r.st.t.bootcamps {
		if b.UserID == id {
			r.st.t.deleteBootcamp(bid)
		}
	}
	for k, c := range r.st.t.courses {
		if c.UserID == id {
			delete(r.st.t.courses, k)
		}
	}
	for k, rv := range r.st.t.reviews {
		if rv.UserID == id {
			delete(r.st.t.reviews, k)
		}
	}
	return nil
}
