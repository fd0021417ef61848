package services

import (
	"context"
	"errors"
	"fmt"

	"courseware/internal/models"
	"courseware/internal/xmodule"

	"go.uber.org/zap"
)

var ErrValidation = errors.New("validation failed")

type AdminServiceInterface interface {
	SaveModule(ctx context.Context, rec models.DescriptorRecord) error
}

type AdminService struct {
	repo     ContentStore
	courses  *CourseService
	registry *xmodule.Registry
}

func NewAdminService(repo ContentStore, courses *CourseService, registry *xmodule.Registry) *AdminService {
	return &AdminService{repo: repo, courses: courses, registry: registry}
}

// SaveModule validates and upserts one descriptor, then drops the cached
// course so the next request sees it.
func (s *AdminService) SaveModule(ctx context.Context, rec models.DescriptorRecord) error {
	loc, err := models.ParseLocation(rec.Location)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.registry.Build(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for _, child := range rec.Children {
		cl, err := models.ParseLocation(child)
		if err != nil {
			return fmt.Errorf("%w: child: %v", ErrValidation, err)
		}
		if cl.CourseID() != loc.CourseID() {
			return fmt.Errorf("%w: child %s is in another course", ErrValidation, child)
		}
	}
	rec.Location = loc.String()

	if err := s.repo.Save(ctx, loc.CourseID(), rec); err != nil {
		return err
	}
	if err := s.courses.Invalidate(ctx, loc.CourseID()); err != nil {
		zap.S().Warnf("Course cache invalidation failed for %s: %v", loc.CourseID(), err)
	}
	return nil
}
