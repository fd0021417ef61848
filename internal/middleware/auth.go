package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"courseware/internal/models"

	"go.uber.org/zap"
)

type contextKey string

const StudentIDKey contextKey = "student_id"

// KeyChecker reports whether a key is present; db.RedisCache satisfies it.
type KeyChecker interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// AuthRequired admits requests whose X-User-ID names a registered student,
// i.e. one the student syncer has written to student:<id>.
func AuthRequired(keys KeyChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idStr := r.Header.Get("X-User-ID")
			if idStr == "" {
				writeError(w, http.StatusUnauthorized, "X-User-ID header required")
				return
			}

			studentID, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil || studentID <= 0 {
				writeError(w, http.StatusBadRequest, "invalid X-User-ID")
				return
			}

			ctx := r.Context()
			exists, err := keys.Exists(ctx, models.StudentKey(idStr))
			if err != nil {
				zap.S().Errorf("Redis EXISTS error for student %s: %v", idStr, err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if !exists {
				writeError(w, http.StatusUnauthorized, "student not registered")
				return
			}

			ctx = context.WithValue(ctx, StudentIDKey, studentID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetStudentIDFromContext(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(StudentIDKey).(int64)
	return id, ok
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
