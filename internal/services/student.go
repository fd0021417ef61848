package services

import (
	"context"
	"fmt"
	"strconv"

	"courseware/internal/kafka"
	"courseware/internal/models"
)

type StudentStore interface {
	Save(ctx context.Context, s models.Student) error
}

type StudentServiceInterface interface {
	CreateStudent(ctx context.Context, s models.Student) error
}

type StudentService struct {
	repo     StudentStore
	producer kafka.ProducerInterface
}

func NewStudentService(repo StudentStore, producer kafka.ProducerInterface) *StudentService {
	return &StudentService{repo: repo, producer: producer}
}

func (s *StudentService) CreateStudent(ctx context.Context, student models.Student) error {
	if student.StudentID <= 0 {
		return fmt.Errorf("%w: invalid StudentID: %d", ErrValidation, student.StudentID)
	}

	if err := s.repo.Save(ctx, student); err != nil {
		return err
	}

	if s.producer != nil {
		kafkaKey := []byte(strconv.FormatInt(student.StudentID, 10))
		s.producer.PublishObjectAsync(kafkaKey, student)
	}
	return nil
}
