package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courseware/internal/models"
)

type StateRepository struct {
	db *sql.DB
}

func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Load returns an empty state when the student never touched the module.
func (r *StateRepository) Load(ctx context.Context, studentID int64, location string) (models.StateData, error) {
	var state models.StateData
	err := r.db.QueryRowContext(ctx, `
		SELECT state FROM student_module_state
		WHERE student_id = $1 AND location = $2
	`, studentID, location).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return make(models.StateData), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state %d %s: %w", studentID, location, err)
	}
	return state, nil
}

// Save upserts the state and returns its new version.
func (r *StateRepository) Save(ctx context.Context, s models.StudentState) (int64, error) {
	var version int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO student_module_state (student_id, location, state, updated_at, version)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (student_id, location) DO UPDATE
		SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at,
			version = student_module_state.version + 1
		RETURNING version
	`, s.StudentID, s.Location, s.State, s.UpdatedAt).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("save state %d %s: %w", s.StudentID, s.Location, err)
	}
	return version, nil
}
