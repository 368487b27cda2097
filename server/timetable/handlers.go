package servertimetable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Pjt727/cample/export"
	"github.com/Pjt727/cample/timetable"
)

type timetableHandler struct {
	service *timetable.Service
	logger  *slog.Logger
}

type addCourseRequest struct {
	CourseID *int64 `json:"courseId"`
}

type resolveRequest struct {
	CourseID   *int64 `json:"courseId"`
	Resolution string `json:"resolution"`
}

type conflictResponse struct {
	ExistingItemID     uuid.UUID `json:"existingItemId"`
	ExistingCourseID   int64     `json:"existingCourseId"`
	ExistingCourseName string    `json:"existingCourseName"`
	Day                string    `json:"day"`
	Existing           string    `json:"existing"`
	Requested          string    `json:"requested"`
}

type tryAddResponse struct {
	Conflict          bool               `json:"conflict"`
	ItemID            *uuid.UUID         `json:"itemId,omitempty"`
	CreatedEventCount int                `json:"createdEventCount"`
	Conflicts         []conflictResponse `json:"conflicts,omitempty"`
}

type resolveResponse struct {
	Applied           bool        `json:"applied"`
	ItemID            *uuid.UUID  `json:"itemId,omitempty"`
	RemovedItemIDs    []uuid.UUID `json:"removedItemIds"`
	CreatedEventCount int         `json:"createdEventCount"`
	DeletedEventCount int         `json:"deletedEventCount"`
}

type removeResponse struct {
	Ok                bool `json:"ok"`
	DeletedEventCount int  `json:"deletedEventCount"`
}

type timeResponse struct {
	Day   string `json:"dayOfWeek"`
	Start string `json:"startTime"`
	End   string `json:"endTime"`
	Room  string `json:"room,omitempty"`
}

type courseResponse struct {
	ItemID     uuid.UUID      `json:"itemId"`
	CourseID   int64          `json:"courseId"`
	CourseCode string         `json:"courseCode"`
	Name       string         `json:"name"`
	Professor  string         `json:"professor,omitempty"`
	Section    string         `json:"section,omitempty"`
	Credit     *int           `json:"credit,omitempty"`
	Times      []timeResponse `json:"times"`
	AddedAt    time.Time      `json:"addedAt"`
}

type timetableResponse struct {
	Semester string           `json:"semester"`
	Courses  []courseResponse `json:"courses"`
}

type creditsResponse struct {
	Semester     string `json:"semester"`
	TotalCredits int    `json:"totalCredits"`
}

func (h *timetableHandler) tryAdd(w http.ResponseWriter, r *http.Request) {
	var req addCourseRequest
	if err := decode(w, r, &req); err != nil || req.CourseID == nil {
		http.Error(w, "courseId is required", http.StatusBadRequest)
		return
	}

	result, err := h.service.TryAdd(r.Context(), studentFrom(r.Context()), *req.CourseID)
	if err != nil {
		h.writeError(w, err, "Could not add course")
		return
	}

	response := tryAddResponse{
		Conflict:          result.Conflict,
		CreatedEventCount: result.CreatedEventCount,
	}
	if result.Conflict {
		response.Conflicts = make([]conflictResponse, len(result.Conflicts))
		for i, c := range result.Conflicts {
			response.Conflicts[i] = conflictResponse{
				ExistingItemID:     c.ExistingEnrollmentID,
				ExistingCourseID:   c.ExistingCourseID,
				ExistingCourseName: c.ExistingCourseName,
				Day:                c.DayLabel(),
				Existing:           c.Existing.String(),
				Requested:          c.Requested.String(),
			}
		}
	} else {
		response.ItemID = &result.EnrollmentID
	}
	h.writeJSON(w, response)
}

func (h *timetableHandler) resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decode(w, r, &req); err != nil || req.CourseID == nil {
		http.Error(w, "courseId and resolution are required", http.StatusBadRequest)
		return
	}
	decision, err := timetable.ParseDecision(req.Resolution)
	if err != nil {
		http.Error(w, "resolution must be KEEP or REPLACE", http.StatusBadRequest)
		return
	}

	result, err := h.service.Resolve(r.Context(), studentFrom(r.Context()), *req.CourseID, decision)
	if err != nil {
		h.writeError(w, err, "Could not resolve conflict")
		return
	}

	response := resolveResponse{
		Applied:           result.Applied,
		RemovedItemIDs:    result.RemovedEnrollmentIDs,
		CreatedEventCount: result.CreatedEventCount,
		DeletedEventCount: result.DeletedEventCount,
	}
	if result.Applied {
		response.ItemID = &result.EnrollmentID
	}
	h.writeJSON(w, response)
}

func (h *timetableHandler) remove(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	result, err := h.service.Remove(r.Context(), studentFrom(r.Context()), itemID)
	if err != nil {
		h.writeError(w, err, "Could not remove item")
		return
	}
	h.writeJSON(w, removeResponse{Ok: true, DeletedEventCount: result.DeletedEventCount})
}

func (h *timetableHandler) getTimetable(w http.ResponseWriter, r *http.Request) {
	tt, err := h.service.Timetable(r.Context(), studentFrom(r.Context()))
	if err != nil {
		h.writeError(w, err, "Could not get timetable")
		return
	}

	response := timetableResponse{
		Semester: tt.SemesterCode,
		Courses:  make([]courseResponse, len(tt.Courses)),
	}
	for i, c := range tt.Courses {
		times := make([]timeResponse, len(c.Slots))
		for j, slot := range c.Slots {
			times[j] = timeResponse{
				Day:   strings.ToUpper(slot.Day.String()[:3]),
				Start: slot.Start.String(),
				End:   slot.End.String(),
				Room:  slot.Room,
			}
		}
		response.Courses[i] = courseResponse{
			ItemID:     c.Enrollment.ID,
			CourseID:   c.Course.ID,
			CourseCode: c.Course.Code,
			Name:       c.Course.Name,
			Professor:  c.Course.Professor,
			Section:    c.Course.Section,
			Credit:     c.Course.Credit,
			Times:      times,
			AddedAt:    c.Enrollment.CreatedAt,
		}
	}
	h.writeJSON(w, response)
}

func (h *timetableHandler) getCredits(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalCredits(r.Context(), studentFrom(r.Context()))
	if err != nil {
		h.writeError(w, err, "Could not get credits")
		return
	}
	h.writeJSON(w, creditsResponse{Semester: h.service.Semester().Code, TotalCredits: total})
}

func (h *timetableHandler) exportCalendar(w http.ResponseWriter, r *http.Request) {
	tt, err := h.service.Timetable(r.Context(), studentFrom(r.Context()))
	if err != nil {
		h.writeError(w, err, "Could not get timetable")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, tt, time.Now()); err != nil {
		h.logger.Error("Could not render calendar", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="timetable-%s.ics"`, tt.SemesterCode))
	w.Write(buf.Bytes())
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func (h *timetableHandler) writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Could not marshal response", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// statusFor maps the timetable errors to http statuses, anything unknown is a 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, timetable.ErrDuplicateEnrollment):
		return http.StatusConflict
	case errors.Is(err, timetable.ErrCourseNotFound),
		errors.Is(err, timetable.ErrSemesterMismatch),
		errors.Is(err, timetable.ErrEnrollmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, timetable.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, timetable.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, timetable.ErrSinkFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *timetableHandler) writeError(w http.ResponseWriter, err error, message string) {
	status := statusFor(err)
	if status >= 500 {
		h.logger.Error(message, "err", err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	h.logger.Debug(message, "err", err)
	http.Error(w, err.Error(), status)
}
