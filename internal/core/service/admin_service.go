package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/icct-edu/campus-events/internal/api/metrics"
	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

// userSearchFields are matched case-insensitively by SearchUsers.
var userSearchFields = []string{"name", "email", "studentId", "campus"}

// AdminService is the management console behind the admin session flag.
// Mutations to events signal the refresh machinery so open catalogs reload.
type AdminService struct {
	store   ports.RecordStore
	session ports.Session
	signal  ports.ChangeSignaler
	log     zerolog.Logger
}

func NewAdminService(store ports.RecordStore, session ports.Session, signal ports.ChangeSignaler, log zerolog.Logger) *AdminService {
	return &AdminService{store: store, session: session, signal: signal, log: log}
}

func (s *AdminService) requireAdmin(ctx context.Context) error {
	if !s.session.IsAdmin(ctx) {
		return domain.ErrAccessDenied
	}
	return nil
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// ListEvents returns every event, including past ones, sorted by date.
func (s *AdminService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	recs, err := s.store.ReadAll(ctx, ports.CollectionEvents, nil)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}
	events := make([]domain.Event, 0, len(recs))
	for _, rec := range recs {
		var ev domain.Event
		if err := domain.FromRecord(rec, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	return events, nil
}

func (s *AdminService) CreateEvent(ctx context.Context, input ports.EventInput) (*domain.Event, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	ev := eventFromInput(input)
	ev.Registered = 0
	ev.Status = domain.EventStatusUpcoming
	if ev.Image == "" {
		ev.Image = domain.DefaultEventImage
	}

	rec, err := domain.ToRecord(ev)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, ports.CollectionEvents, rec)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}
	if err := domain.FromRecord(created, &ev); err != nil {
		return nil, err
	}

	s.signalChanged(ctx)
	s.log.Info().Str("event", ev.ID).Str("title", ev.Title).Msg("event created")
	return &ev, nil
}

// UpdateEvent replaces the form fields but preserves the stored Registered
// counter, Status and CreatedAt.
func (s *AdminService) UpdateEvent(ctx context.Context, id string, input ports.EventInput) (*domain.Event, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	if _, err := s.store.Read(ctx, ports.CollectionEvents, id); err != nil {
		return nil, domain.ErrEventNotFound
	}

	partial := ports.Record{
		"title":       input.Title,
		"category":    input.Category,
		"campus":      input.Campus,
		"date":        input.Date,
		"time":        input.Time,
		"location":    input.Location,
		"description": input.Description,
		"capacity":    input.Capacity,
		"speaker":     input.Speaker,
	}
	if input.Image != "" {
		partial["image"] = input.Image
	}

	updated, err := s.store.Update(ctx, ports.CollectionEvents, id, partial)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}
	var ev domain.Event
	if err := domain.FromRecord(updated, &ev); err != nil {
		return nil, err
	}

	s.signalChanged(ctx)
	s.log.Info().Str("event", id).Msg("event updated")
	return &ev, nil
}

// DeleteEvent removes the event and every registration referencing it.
func (s *AdminService) DeleteEvent(ctx context.Context, id string, confirm bool) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if !confirm {
		return domain.ErrConfirmationRequired
	}

	ok, err := s.store.Delete(ctx, ports.CollectionEvents, id)
	if err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	if !ok {
		return domain.ErrEventNotFound
	}

	regs, err := s.store.ReadAll(ctx, ports.CollectionRegistrations, map[string]any{"eventId": id})
	if err != nil {
		s.log.Warn().Err(err).Str("event", id).Msg("cascade lookup failed")
		regs = nil
	}
	for _, reg := range regs {
		regID, _ := reg["id"].(string)
		if regID == "" {
			continue
		}
		if _, err := s.store.Delete(ctx, ports.CollectionRegistrations, regID); err != nil {
			s.log.Warn().Err(err).Str("registration", regID).Msg("cascade delete failed")
		}
	}

	s.signalChanged(ctx)
	s.log.Info().Str("event", id).Int("registrations", len(regs)).Msg("event deleted")
	return nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	recs, err := s.store.ReadAll(ctx, ports.CollectionUsers, nil)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}
	return usersFromRecords(recs), nil
}

// SearchUsers matches term case-insensitively across name, email, student id
// and campus. An empty term returns everyone.
func (s *AdminService) SearchUsers(ctx context.Context, term string) ([]domain.User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	recs, err := s.store.Search(ctx, ports.CollectionUsers, term, userSearchFields)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}
	return usersFromRecords(recs), nil
}

func (s *AdminService) PromoteToAdmin(ctx context.Context, userID string, confirm bool) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if !confirm {
		return domain.ErrConfirmationRequired
	}

	if _, err := s.store.Update(ctx, ports.CollectionUsers, userID, ports.Record{
		"role": domain.RoleAdmin,
	}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("admin: %w", err)
	}

	s.log.Info().Str("user", userID).Msg("user promoted to admin")
	return nil
}

// DeleteUser removes the user, their registrations, and walks each
// registration's event to decrement its counter, floored at zero.
func (s *AdminService) DeleteUser(ctx context.Context, userID string, confirm bool) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if !confirm {
		return domain.ErrConfirmationRequired
	}

	ok, err := s.store.Delete(ctx, ports.CollectionUsers, userID)
	if err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	if !ok {
		return domain.ErrUserNotFound
	}

	regs, err := s.store.ReadAll(ctx, ports.CollectionRegistrations, map[string]any{"userId": userID})
	if err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("cascade lookup failed")
		regs = nil
	}
	for _, reg := range regs {
		regID, _ := reg["id"].(string)
		eventID, _ := reg["eventId"].(string)
		if regID != "" {
			if _, err := s.store.Delete(ctx, ports.CollectionRegistrations, regID); err != nil {
				s.log.Warn().Err(err).Str("registration", regID).Msg("cascade delete failed")
			}
		}
		if eventID == "" {
			continue
		}
		evRec, err := s.store.Read(ctx, ports.CollectionEvents, eventID)
		if err != nil {
			continue
		}
		var ev domain.Event
		if err := domain.FromRecord(evRec, &ev); err != nil {
			continue
		}
		next := ev.Registered - 1
		if next < 0 {
			next = 0
		}
		if _, err := s.store.Update(ctx, ports.CollectionEvents, eventID, ports.Record{
			"registered": next,
		}); err != nil {
			s.log.Warn().Err(err).Str("event", eventID).Msg("counter decrement failed")
		}
	}

	s.signalChanged(ctx)
	s.log.Info().Str("user", userID).Int("registrations", len(regs)).Msg("user deleted")
	return nil
}

// ExportUsersCSV renders every user as CSV with each field quoted, named by
// the export date.
func (s *AdminService) ExportUsersCSV(ctx context.Context) (*ports.CSVExport, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Name,Email,Student ID,Campus,Role,Created At\n")
	for _, u := range users {
		row := []string{u.Name, u.Email, u.StudentID, u.Campus, u.Role, u.CreatedAt}
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}

	return &ports.CSVExport{
		Filename: fmt.Sprintf("ICCT_Users_Export_%s.csv", time.Now().Format("2006-01-02")),
		Data:     []byte(b.String()),
	}, nil
}

// ---------------------------------------------------------------------------
// Analytics
// ---------------------------------------------------------------------------

// Analytics computes the dashboard counters by scanning full collections.
func (s *AdminService) Analytics(ctx context.Context) (*ports.Analytics, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	totalStudents, err := s.store.Count(ctx, ports.CollectionUsers, map[string]any{"role": domain.RoleStudent})
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}

	now := time.Now()
	monthPrefix := now.Format("2006-01")
	eventRecs, err := s.store.ReadAll(ctx, ports.CollectionEvents, nil)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}
	eventsThisMonth := 0
	for _, rec := range eventRecs {
		date, _ := rec["date"].(string)
		if strings.HasPrefix(date, monthPrefix) {
			eventsThisMonth++
		}
	}

	todayPrefix := now.Format("2006-01-02")
	attRecs, err := s.store.ReadAll(ctx, ports.CollectionAttendance, nil)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}
	todays := 0
	attended := map[string]struct{}{}
	for _, rec := range attRecs {
		ts, _ := rec["timestamp"].(string)
		if strings.HasPrefix(ts, todayPrefix) {
			todays++
		}
		if sid, _ := rec["studentId"].(string); sid != "" {
			attended[sid] = struct{}{}
		}
	}

	rate := 0
	if totalStudents > 0 {
		rate = int(math.Round(float64(len(attended)) / float64(totalStudents) * 100))
	}

	return &ports.Analytics{
		TotalStudents:     totalStudents,
		EventsThisMonth:   eventsThisMonth,
		TodaysAttendance:  todays,
		ParticipationRate: rate,
	}, nil
}

// ---------------------------------------------------------------------------
// Attendance
// ---------------------------------------------------------------------------

// RecordAttendance resolves the scanned data to an identity and always
// records a row. A JSON identity payload is used as-is; a bare string is
// looked up as a student id; an unknown id records placeholder identity.
func (s *AdminService) RecordAttendance(ctx context.Context, scanData string) (*domain.Attendance, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	scanData = strings.TrimSpace(scanData)
	if scanData == "" {
		return nil, fmt.Errorf("%w: empty scan", domain.ErrValidation)
	}

	att := domain.Attendance{
		Status:     domain.AttendanceStatusPresent,
		ScanMethod: domain.ScanMethodAdminManual,
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	resolution := "unknown"

	var payload domain.QRPayload
	if err := json.Unmarshal([]byte(scanData), &payload); err == nil && payload.Valid() {
		att.StudentID = payload.StudentID
		att.StudentName = payload.Name
		att.Campus = payload.Campus
		resolution = "payload"
	} else {
		recs, err := s.store.ReadAll(ctx, ports.CollectionUsers, map[string]any{"studentId": scanData})
		if err == nil && len(recs) > 0 {
			var user domain.User
			if err := domain.FromRecord(recs[0], &user); err == nil {
				att.StudentID = user.StudentID
				att.StudentName = user.Name
				att.Campus = user.Campus
				resolution = "student_id"
			}
		}
		if resolution == "unknown" {
			att.StudentID = scanData
			att.StudentName = "Unknown Student"
			att.Campus = "Unknown Campus"
		}
	}

	rec, err := domain.ToRecord(att)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, ports.CollectionAttendance, rec)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}
	if err := domain.FromRecord(created, &att); err != nil {
		return nil, err
	}

	metrics.AttendanceRecordedTotal.WithLabelValues(resolution).Inc()
	s.log.Info().Str("student", att.StudentID).Str("resolution", resolution).Msg("attendance recorded")
	return &att, nil
}

// RecentAttendance returns the newest records first, up to limit.
func (s *AdminService) RecentAttendance(ctx context.Context, limit int) ([]domain.Attendance, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	recs, err := s.store.ReadAll(ctx, ports.CollectionAttendance, nil)
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}

	records := make([]domain.Attendance, 0, len(recs))
	for _, rec := range recs {
		var att domain.Attendance
		if err := domain.FromRecord(rec, &att); err != nil {
			continue
		}
		records = append(records, att)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Timestamp > records[j].Timestamp })

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *AdminService) signalChanged(ctx context.Context) {
	if s.signal != nil {
		s.signal.EventsChanged(ctx)
	}
}

func validateEventInput(input ports.EventInput) error {
	switch {
	case strings.TrimSpace(input.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	case strings.TrimSpace(input.Campus) == "":
		return fmt.Errorf("%w: campus is required", domain.ErrValidation)
	case strings.TrimSpace(input.Date) == "":
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	case input.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive", domain.ErrValidation)
	}
	return nil
}

func eventFromInput(input ports.EventInput) domain.Event {
	return domain.Event{
		Title:       input.Title,
		Category:    input.Category,
		Campus:      input.Campus,
		Date:        input.Date,
		Time:        input.Time,
		Location:    input.Location,
		Description: input.Description,
		Capacity:    input.Capacity,
		Speaker:     input.Speaker,
		Image:       input.Image,
	}
}

func usersFromRecords(recs []ports.Record) []domain.User {
	users := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		var u domain.User
		if err := domain.FromRecord(rec, &u); err != nil {
			continue
		}
		users = append(users, u.Sanitized())
	}
	return users
}
