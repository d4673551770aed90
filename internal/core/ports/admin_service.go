package ports

import (
	"context"

	"github.com/icct-edu/campus-events/internal/core/domain"
)

// EventInput is the admin event form. On update, Registered, Status and
// CreatedAt of the stored event are preserved.
type EventInput struct {
	Title       string
	Category    string
	Campus      string
	Date        string
	Time        string
	Location    string
	Description string
	Capacity    int
	Speaker     string
	Image       string
}

// Analytics are the admin dashboard counters, computed by scanning full
// collections.
type Analytics struct {
	TotalStudents     int
	EventsThisMonth   int
	TodaysAttendance  int
	ParticipationRate int // percentage, rounded
}

// CSVExport is a rendered export file.
type CSVExport struct {
	Filename string
	Data     []byte
}

// AdminService is the management console. Every operation checks the session:
// an active student session or a missing admin flag yields ErrAccessDenied.
type AdminService interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	CreateEvent(ctx context.Context, input EventInput) (*domain.Event, error)
	UpdateEvent(ctx context.Context, id string, input EventInput) (*domain.Event, error)
	// DeleteEvent cascades to every registration referencing the event.
	DeleteEvent(ctx context.Context, id string, confirm bool) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	SearchUsers(ctx context.Context, term string) ([]domain.User, error)
	PromoteToAdmin(ctx context.Context, userID string, confirm bool) error
	// DeleteUser cascades to the user's registrations and decrements each
	// referenced event's registered counter, floored at zero.
	DeleteUser(ctx context.Context, userID string, confirm bool) error
	ExportUsersCSV(ctx context.Context) (*CSVExport, error)

	Analytics(ctx context.Context) (*Analytics, error)

	// RecordAttendance accepts a JSON identity payload or a bare student id.
	RecordAttendance(ctx context.Context, scanData string) (*domain.Attendance, error)
	RecentAttendance(ctx context.Context, limit int) ([]domain.Attendance, error)
}

// ChangeSignaler propagates "events changed" to the refresh machinery and
// other processes after admin mutations.
type ChangeSignaler interface {
	EventsChanged(ctx context.Context)
}
