package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"courseware/internal/models"
)

type ContentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) LoadCourse(ctx context.Context, courseID string) ([]models.DescriptorRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT location, display_name, fields, children
		FROM course_modules
		WHERE course_id = $1
		ORDER BY location
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course %s: %w", courseID, err)
	}
	defer rows.Close()

	var records []models.DescriptorRecord
	for rows.Next() {
		var rec models.DescriptorRecord
		if err := rows.Scan(&rec.Location, &rec.DisplayName, &rec.Fields, &rec.Children); err != nil {
			return nil, fmt.Errorf("scan course module: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Save inserts or replaces one descriptor.
func (r *ContentRepository) Save(ctx context.Context, courseID string, rec models.DescriptorRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO course_modules (location, course_id, display_name, fields, children, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (location) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    fields = EXCLUDED.fields,
		    children = EXCLUDED.children,
		    updated_at = NOW()
	`, rec.Location, courseID, rec.DisplayName, rec.Fields, rec.Children)
	if err != nil {
		return fmt.Errorf("save module %s: %w", rec.Location, err)
	}
	return nil
}
