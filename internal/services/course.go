package services

import (
	"context"
	"sync"
	"time"

	"courseware/internal/models"
	"courseware/internal/xmodule"

	"go.uber.org/zap"
)

type ContentStore interface {
	LoadCourse(ctx context.Context, courseID string) ([]models.DescriptorRecord, error)
	Save(ctx context.Context, courseID string, rec models.DescriptorRecord) error
}

type CourseContent struct {
	ID      string                    `json:"id"`
	Records []models.DescriptorRecord `json:"records"`
}

type CourseFetcher struct {
	repo ContentStore
}

func (CourseFetcher) CacheKey(params ...string) string {
	return models.CourseKey(params[0])
}

func (f CourseFetcher) Fetch(ctx context.Context, params ...string) (*CourseContent, error) {
	records, err := f.repo.LoadCourse(ctx, params[0])
	if err != nil {
		return nil, err
	}
	return &CourseContent{ID: params[0], Records: records}, nil
}

type CourseService struct {
	content  *CacheService[CourseContent]
	registry *xmodule.Registry

	mu     sync.Mutex
	broken map[string]string // courseID -> last logged build error
}

func NewCourseService(cache Cache, repo ContentStore, registry *xmodule.Registry) *CourseService {
	return &CourseService{
		content:  NewCacheService[CourseContent](cache, CourseFetcher{repo: repo}, 10*time.Minute),
		registry: registry,
		broken:   map[string]string{},
	}
}

// Course builds the descriptor tree of courseID. Records are cached, the
// tree is rebuilt per call since descriptors hold resolved pointers.
func (s *CourseService) Course(ctx context.Context, courseID string) (*xmodule.Course, error) {
	content, err := s.content.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	course, err := xmodule.BuildCourse(s.registry, courseID, content.Records)
	if err != nil {
		s.reportBroken(courseID, err)
		return nil, err
	}
	return course, nil
}

// reportBroken logs a build error once until the course is saved again.
func (s *CourseService) reportBroken(courseID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken[courseID] == err.Error() {
		return
	}
	s.broken[courseID] = err.Error()
	zap.S().Warnf("Course %s does not build: %v", courseID, err)
}

func (s *CourseService) Invalidate(ctx context.Context, courseID string) error {
	s.mu.Lock()
	delete(s.broken, courseID)
	s.mu.Unlock()
	return s.content.Invalidate(ctx, courseID)
}
