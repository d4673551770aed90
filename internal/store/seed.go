package store

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/icct-edu/campus-events/internal/core/ports"
)

// seed loads the fixed sample content when the events or users collections
// are empty, so a fresh install is browsable immediately.
func (s *Store) seed(ctx context.Context) error {
	eventCount, err := s.Count(ctx, ports.CollectionEvents, nil)
	if err != nil {
		return err
	}
	if eventCount == 0 {
		for _, event := range sampleEvents() {
			if _, err := s.Create(ctx, ports.CollectionEvents, event); err != nil {
				return err
			}
		}
		s.log.Info().Int("events", len(sampleEvents())).Msg("sample events loaded")
	}

	userCount, err := s.Count(ctx, ports.CollectionUsers, nil)
	if err != nil {
		return err
	}
	if userCount == 0 {
		for _, user := range sampleUsers() {
			if _, err := s.Create(ctx, ports.CollectionUsers, user); err != nil {
				return err
			}
		}
		s.log.Info().Int("users", len(sampleUsers())).Msg("sample users loaded")
	}
	return nil
}

func sampleEvents() []ports.Record {
	return []ports.Record{
		{
			"id":          "event001",
			"title":       "Campus Orientation 2024",
			"description": "Welcome orientation for new students",
			"category":    "Academic",
			"campus":      "Cainta Campus",
			"date":        "2024-08-15",
			"time":        "9:00 AM",
			"location":    "Main Auditorium",
			"capacity":    200,
			"registered":  45,
			"speaker":     "Dr. Maria Santos",
			"image":       "assets/images/events/orientation.jpg",
			"status":      "upcoming",
		},
		{
			"id":          "event002",
			"title":       "Web Development Workshop",
			"description": "Learn modern web development technologies",
			"category":    "Workshop",
			"campus":      "Antipolo Campus",
			"date":        "2024-08-20",
			"time":        "1:00 PM",
			"location":    "Computer Lab 3",
			"capacity":    40,
			"registered":  38,
			"speaker":     "Prof. John Dela Cruz",
			"image":       "assets/images/events/workshop.jpg",
			"status":      "upcoming",
		},
	}
}

func sampleUsers() []ports.Record {
	return []ports.Record{
		{
			"id":        "user001",
			"name":      "Juan Dela Cruz",
			"email":     "juan.delacruz@icct.edu.ph",
			"studentId": "2023-00123",
			"campus":    "Cainta Campus",
			"password":  mustHash("password123"),
			"role":      "student",
		},
		{
			"id":        "user002",
			"name":      "Maria Santos",
			"email":     "maria.santos@icct.edu.ph",
			"studentId": "2023-00234",
			"campus":    "Cainta Campus",
			"password":  mustHash("password123"),
			"role":      "student",
		},
		{
			"id":        "admin001",
			"name":      "System Admin",
			"email":     "admin@icct.edu.ph",
			"studentId": "ADMIN001",
			"campus":    "Main Campus",
			"password":  mustHash("admin123"),
			"role":      "admin",
		},
	}
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}
