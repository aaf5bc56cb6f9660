// Package memory is an in-process implementation of the repositories. It
// backs service and handler tests and mirrors the constraints of the SQL
// schema: unique emails, one review per user and bootcamp, and cascading
// deletes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"devcamper/internal/domain/bootcamp"
	"devcamper/internal/domain/course"
	"devcamper/internal/domain/review"
	"devcamper/internal/domain/user"
	"devcamper/internal/store/repositories"
)

type tables struct {
	bootcamps map[string]bootcamp.Bootcamp
	courses   map[string]course.Course
	reviews   map[string]review.Review
	users     map[string]user.User
}

func newTables() *tables {
	return &tables{
		bootcamps: map[string]bootcamp.Bootcamp{},
		courses:   map[string]course.Course{},
		reviews:   map[string]review.Review{},
		users:     map[string]user.User{},
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.bootcamps {
		c.bootcamps[k] = v
	}
	for k, v := range t.courses {
		c.courses[k] = v
	}
	for k, v := range t.reviews {
		c.reviews[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	return c
}

// state is one view of the tables: the committed store or an open
// transaction's private copy.
type state struct {
	mu sync.RWMutex
	t  *tables
}

type Store struct {
	txMu sync.Mutex // serializes transactions
	st   *state
}

func New() *Store {
	return &Store{st: &state{t: newTables()}}
}

func (s *Store) Bootcamps() repositories.BootcampRepository { return &bootcampRepository{s.st} }
func (s *Store) Courses() repositories.CourseRepository     { return &courseRepository{s.st} }
func (s *Store) Reviews() repositories.ReviewRepository     { return &reviewRepository{s.st} }
func (s *Store) Users() repositories.UserRepository         { return &userRepository{s.st} }
func (s *Store) UnitOfWork() repositories.UnitOfWork        { return s }

// Begin snapshots the tables. Commit publishes the snapshot back.
func (s *Store) Begin(ctx context.Context) (repositories.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.txMu.Lock()
	s.st.mu.RLock()
	snap := s.st.t.clone()
	s.st.mu.RUnlock()
	return &transaction{parent: s, st: &state{t: snap}}, nil
}

type transaction struct {
	parent *Store
	st     *state
	done   bool
}

func (tx *transaction) Commit(ctx context.Context) error {
	if tx.done {
		return fmt.Errorf("transaction already closed")
	}
	tx.done = true
	tx.parent.st.mu.Lock()
	tx.parent.st.t = tx.st.t
	tx.parent.st.mu.Unlock()
	tx.parent.txMu.Unlock()
	return nil
}

func (tx *transaction) Rollback(ctx context.Context) error {
	if tx.done {
		return nil
	}
	tx.done = true
	tx.parent.txMu.Unlock()
	return nil
}

func (tx *transaction) BootcampRepository() repositories.BootcampRepository {
	return &bootcampRepository{tx.st}
}

func (tx *transaction) CourseRepository() repositories.CourseRepository {
	return &courseRepository{tx.st}
}

func (tx *transaction) ReviewRepository() repositories.ReviewRepository {
	return &reviewRepository{tx.st}
}

// ref builds the embedded bootcamp of a course or review, like the join in
// the SQL store.
func (t *tables) ref(bootcampID string) *course.BootcampRef {
	ref := &course.BootcampRef{ID: bootcampID}
	if b, ok := t.bootcamps[bootcampID]; ok {
		ref.Name = b.Name
		ref.Description = b.Description
	}
	return ref
}

func (t *tables) deleteBootcamp(id string) {
	delete(t.bootcamps, id)
	for k, c := range t.courses {
		if c.BootcampID == id {
			delete(t.courses, k)
		}
	}
	for k, r := range t.reviews {
		if r.BootcampID == id {
			delete(t.reviews, k)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
