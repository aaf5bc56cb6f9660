package bootcamp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"devcamper/internal/apperr"
	"devcamper/internal/domain/bootcamp"
	"devcamper/internal/domain/user"
	"devcamper/internal/geocode"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"
	"devcamper/internal/validation"

	"github.com/rs/zerolog/log"
)

// CreateRequest is the body of POST /bootcamps
type CreateRequest struct {
	Name          string   `json:"name" validate:"required,max=50"`
	Description   string   `json:"description" validate:"required,max=500"`
	Website       string   `json:"website" validate:"omitempty,url,startswith=http"`
	Phone         string   `json:"phone" validate:"omitempty,max=20"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Address       string   `json:"address" validate:"required"`
	Careers       []string `json:"careers" validate:"min=1,dive,oneof='Web Development' 'Mobile Development' 'UI/UX' 'Data Science' 'Business' 'Other'"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

// UpdateRequest is the body of PUT /bootcamps/{id}. Absent fields are left
// unchanged.
type UpdateRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=50"`
	Description   *string  `json:"description" validate:"omitempty,min=1,max=500"`
	Website       *string  `json:"website" validate:"omitempty,url,startswith=http"`
	Phone         *string  `json:"phone" validate:"omitempty,max=20"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Address       *string  `json:"address" validate:"omitempty,min=1"`
	Careers       []string `json:"careers" validate:"omitempty,min=1,dive,oneof='Web Development' 'Mobile Development' 'UI/UX' 'Data Science' 'Business' 'Other'"`
	Housing       *bool    `json:"housing"`
	JobAssistance *bool    `json:"jobAssistance"`
	JobGuarantee  *bool    `json:"jobGuarantee"`
	AcceptGi      *bool    `json:"acceptGi"`
}

// Service manages bootcamps
type Service struct {
	bootcamps repositories.BootcampRepository
	courses   repositories.CourseRepository
	geocoder  geocode.Geocoder
}

func NewService(bootcamps repositories.BootcampRepository, courses repositories.CourseRepository, geocoder geocode.Geocoder) *Service {
	return &Service{bootcamps: bootcamps, courses: courses, geocoder: geocoder}
}

// List returns one page of bootcamps with their courses attached.
func (s *Service) List(ctx context.Context, p query.Params) (query.Result[*bootcamp.Bootcamp], error) {
	res, err := s.bootcamps.Find(ctx, p)
	if err != nil {
		return res, &ServiceError{Op: "list_bootcamps", Err: err}
	}
	if len(res.Items) == 0 {
		return res, nil
	}

	ids := make([]string, 0, len(res.Items))
	for _, b := range res.Items {
		ids = append(ids, b.ID)
	}
	byBootcamp, err := s.courses.FindByBootcamps(ctx, ids)
	if err != nil {
		return res, &ServiceError{Op: "list_bootcamp_courses", Err: err}
	}
	for _, b := range res.Items {
		b.Courses = byBootcamp[b.ID]
	}
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string) (*bootcamp.Bootcamp, error) {
	b, err := s.bootcamps.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "get_bootcamp", Err: err}
	}
	return b, nil
}

// Create publishes a bootcamp. Publishers may own a single bootcamp, admins
// any number.
func (s *Service) Create(ctx context.Context, actor *user.User, req CreateRequest) (*bootcamp.Bootcamp, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		p := query.Params{Page: query.Page{Page: 1, Limit: 1}}.Where("user", bootcamp.QuerySchema, actor.ID)
		existing, err := s.bootcamps.Find(ctx, p)
		if err != nil {
			return nil, &ServiceError{Op: "count_published", Err: err}
		}
		if existing.Total > 0 {
			return nil, apperr.BadRequest("The user with ID %s has already published a bootcamp", actor.ID)
		}
	}

	b := bootcamp.New(req.Name, actor.ID)
	b.Description = req.Description
	b.Website = req.Website
	b.Phone = req.Phone
	b.Email = req.Email
	b.Address = strings.TrimSpace(req.Address)
	b.Careers = req.Careers
	b.Housing = req.Housing
	b.JobAssistance = req.JobAssistance
	b.JobGuarantee = req.JobGuarantee
	b.AcceptGi = req.AcceptGi

	if err := s.locate(ctx, b); err != nil {
		return nil, err
	}
	if err := s.bootcamps.Create(ctx, b); err != nil {
		return nil, &ServiceError{Op: "create_bootcamp", Err: err}
	}

	log.Info().Str("bootcamp_id", b.ID).Str("user_id", actor.ID).Msg("bootcamp created")
	return b, nil
}

// Update applies the present fields of req. Only the owner or an admin may
// update a bootcamp.
func (s *Service) Update(ctx context.Context, actor *user.User, id string, req UpdateRequest) (*bootcamp.Bootcamp, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	b, err := s.bootcamps.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "get_bootcamp", Err: err}
	}
	if !actor.Owns(b.UserID) {
		return nil, apperr.Forbidden("User %s is not authorized to update this bootcamp", actor.ID)
	}

	if req.Name != nil {
		b.Rename(*req.Name)
	}
	setString(&b.Description, req.Description)
	setString(&b.Website, req.Website)
	setString(&b.Phone, req.Phone)
	setString(&b.Email, req.Email)
	if req.Careers != nil {
		b.Careers = req.Careers
	}
	setBool(&b.Housing, req.Housing)
	setBool(&b.JobAssistance, req.JobAssistance)
	setBool(&b.JobGuarantee, req.JobGuarantee)
	setBool(&b.AcceptGi, req.AcceptGi)

	if req.Address != nil && strings.TrimSpace(*req.Address) != b.Address {
		b.Address = strings.TrimSpace(*req.Address)
		if err := s.locate(ctx, b); err != nil {
			return nil, err
		}
	}

	if err := s.bootcamps.Update(ctx, b); err != nil {
		return nil, &ServiceError{Op: "update_bootcamp", Err: err}
	}
	return b, nil
}

// Delete removes a bootcamp together with its courses and reviews.
func (s *Service) Delete(ctx context.Context, actor *user.User, id string) error {
	b, err := s.bootcamps.FindByID(ctx, id)
	if err != nil {
		return &ServiceError{Op: "get_bootcamp", Err: err}
	}
	if !actor.Owns(b.UserID) {
		return apperr.Forbidden("User %s is not authorized to delete this bootcamp", actor.ID)
	}
	if err := s.bootcamps.Delete(ctx, id); err != nil {
		return &ServiceError{Op: "delete_bootcamp", Err: err}
	}

	log.Info().Str("bootcamp_id", id).Str("user_id", actor.ID).Msg("bootcamp deleted")
	return nil
}

// InRadius finds bootcamps within distance miles of a zipcode.
func (s *Service) InRadius(ctx context.Context, zipcode, distance string) ([]*bootcamp.Bootcamp, error) {
	miles, err := strconv.ParseFloat(distance, 64)
	if err != nil || miles < 0 {
		return nil, apperr.BadRequest("Invalid distance %q", distance)
	}

	loc, err := geocode.First(ctx, s.geocoder, zipcode)
	if errors.Is(err, geocode.ErrNoResult) {
		return nil, apperr.BadRequest("Could not find a location for %s", zipcode)
	}
	if err != nil {
		return nil, &ServiceError{Op: "geocode_zipcode", Err: err}
	}

	found, err := s.bootcamps.FindWithinRadius(ctx, loc.Lat, loc.Lng, geocode.RadiusRadians(miles))
	if err != nil {
		return nil, &ServiceError{Op: "find_in_radius", Err: err}
	}
	if found == nil {
		found = []*bootcamp.Bootcamp{}
	}
	return found, nil
}

// locate geocodes the address into the location block.
func (s *Service) locate(ctx context.Context, b *bootcamp.Bootcamp) error {
	loc, err := geocode.First(ctx, s.geocoder, b.Address)
	if errors.Is(err, geocode.ErrNoResult) {
		return apperr.BadRequest("Could not find a location for %s", b.Address)
	}
	if err != nil {
		return &ServiceError{Op: "geocode_address", Err: err}
	}
	b.Location = &bootcamp.Location{
		Type:             "Point",
		Coordinates:      [2]float64{loc.Lng, loc.Lat},
		FormattedAddress: loc.FormattedAddress,
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.Zipcode,
		Country:          loc.Country,
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("bootcamp service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
