package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/qaunion/portal/model"
	"github.com/qaunion/portal/services/backend"
	"github.com/qaunion/portal/utils/cache"
)

// LookupTTL outlives the refresh schedule so readers rarely see a miss
const LookupTTL = 15 * time.Minute

const (
	userTypesKey    = "lookup:user_types"
	universitiesKey = "lookup:universities"
)

// LookupService serves the public reference data the signup wizard needs.
// User types and universities are cached; faculties and programs depend on
// the visitor's selection and are fetched each time.
type LookupService struct {
	client *backend.Client
	cache  cache.Cache
	ttl    time.Duration
}

func NewLookupService(client *backend.Client, c cache.Cache) *LookupService {
	return &LookupService{client: client, cache: c, ttl: LookupTTL}
}

func (s *LookupService) UserTypes(ctx context.Context) ([]model.UserType, error) {
	return cached(ctx, s, userTypesKey, func(ctx context.Context) ([]model.UserType, error) {
		return s.client.UserTypes.List(ctx, "")
	})
}

func (s *LookupService) Universities(ctx context.Context) ([]model.University, error) {
	return cached(ctx, s, universitiesKey, func(ctx context.Context) ([]model.University, error) {
		return s.client.Universities.List(ctx, "")
	})
}

func (s *LookupService) Faculties(ctx context.Context, universityID int) ([]model.Faculty, error) {
	return s.client.FacultiesByUniversity(ctx, "", universityID)
}

func (s *LookupService) Programs(ctx context.Context, facultyID, programType int) ([]model.Program, error) {
	return s.client.ProgramsByFaculty(ctx, "", facultyID, programType)
}

// Refresh refetches the cached collections. Both are attempted; the first
// error is returned.
func (s *LookupService) Refresh(ctx context.Context) (int, error) {
	var firstErr error
	total := 0

	types, err := s.client.UserTypes.List(ctx, "")
	if err == nil {
		total += len(types)
		err = s.cache.SetJSON(ctx, userTypesKey, types, s.ttl)
	}
	if err != nil {
		firstErr = fmt.Errorf("refresh user types: %w", err)
	}

	unis, err := s.client.Universities.List(ctx, "")
	if err == nil {
		total += len(unis)
		err = s.cache.SetJSON(ctx, universitiesKey, unis, s.ttl)
	}
	if err != nil && firstErr == nil {
		firstErr = fmt.Errorf("refresh universities: %w", err)
	}
	return total, firstErr
}

func cached[T any](ctx context.Context, s *LookupService, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	var out []T
	err := s.cache.GetJSON(ctx, key, &out)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		log.Printf("Lookup cache read failed for %s: %v", key, err)
	}

	out, err = fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, key, out, s.ttl); err != nil {
		log.Printf("Lookup cache write failed for %s: %v", key, err)
	}
	return out, nil
}
