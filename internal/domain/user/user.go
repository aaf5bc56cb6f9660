package user

import (
	"fmt"
	"strings"
	"time"

	"devcamper/internal/query"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an account that can publish bootcamps or write reviews.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Role represents what a user is allowed to do
type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	}
	return false
}

// QuerySchema lists the fields /users can be filtered and sorted by.
var QuerySchema = query.Schema{
	"id":        {Column: "id", Kind: query.KindText},
	"name":      {Column: "name", Kind: query.KindText},
	"email":     {Column: "email", Kind: query.KindText},
	"role":      {Column: "role", Kind: query.KindText},
	"createdAt": {Column: "created_at", Kind: query.KindTime},
}

// NewUser creates a user with a hashed password. An empty role defaults to
// RoleUser.
func NewUser(name, email, password string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	u := &User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail lower-cases and trims an address so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword replaces the stored hash.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// MatchPassword compares a plaintext password with the stored hash.
func (u *User) MatchPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasRole reports whether the user has any of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// Owns reports whether the user may modify a record created by ownerID.
// Admins may modify anything.
func (u *User) Owns(ownerID string) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || u.ID == ownerID
}
