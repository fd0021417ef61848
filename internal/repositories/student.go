package repositories

import (
	"context"
	"database/sql"

	"courseware/internal/models"

	"go.uber.org/zap"
)

type StudentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Save stores the student, replacing the profile on re-registration.
func (r *StudentRepository) Save(ctx context.Context, s models.Student) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (student_id, username, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (student_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name
	`, s.StudentID, s.UserName, s.FirstName, s.LastName)
	if err != nil {
		zap.S().Errorf("Failed to save student to DB: %v", err)
		return err
	}
	zap.S().Infof("Student saved to DB: %d", s.StudentID)
	return nil
}
