package servertimetable

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// set by the gateway in front of this service once the student is authenticated
const StudentHeader = "X-Student-ID"

type contextKey int

const studentKey contextKey = iota

func requireStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(StudentHeader))
		studentID, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || studentID <= 0 {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), studentKey, studentID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// only valid behind requireStudent
func studentFrom(ctx context.Context) int64 {
	return ctx.Value(studentKey).(int64)
}
