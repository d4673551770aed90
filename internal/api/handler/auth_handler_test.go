package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

type stubAuthService struct {
	registered *domain.User
	loginErr   error
}

func (s *stubAuthService) RegisterStudent(_ context.Context, input ports.RegisterStudentInput) (*domain.User, error) {
	user := &domain.User{
		ID: "user001", Name: input.Name, Email: input.Email,
		StudentID: input.StudentID, Campus: input.Campus,
		Password: "digest", Role: domain.RoleStudent,
	}
	s.registered = user
	return user, nil
}

func (s *stubAuthService) LoginStudent(context.Context, string, string) (string, *domain.User, error) {
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return "token123", &domain.User{ID: "user001", Email: "juan@icct.edu.ph", Password: "digest"}, nil
}

func (s *stubAuthService) LoginAdmin(context.Context, string, string) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return "admintoken", nil
}

func (s *stubAuthService) Logout(context.Context) error { return nil }

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	body := `{"name":"Juan Dela Cruz","email":"juan@icct.edu.ph","studentId":"2023-00123",` +
		`"campus":"Cainta","password":"supersafe1","confirmPassword":"supersafe1"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.registered == nil || svc.registered.StudentID != "2023-00123" {
		t.Fatalf("service not called with form data")
	}
	if strings.Contains(rec.Body.String(), "digest") {
		t.Fatalf("password digest leaked into response: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_SchemaValidation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	cases := map[string]string{
		"bad email":        `{"name":"Juan","email":"not-an-email","studentId":"1","campus":"Cainta","password":"supersafe1","confirmPassword":"supersafe1"}`,
		"short password":   `{"name":"Juan","email":"j@icct.edu.ph","studentId":"1","campus":"Cainta","password":"short","confirmPassword":"short"}`,
		"confirm mismatch": `{"name":"Juan","email":"j@icct.edu.ph","studentId":"1","campus":"Cainta","password":"supersafe1","confirmPassword":"different1"}`,
	}
	for name, body := range cases {
		c, _ := newTestContext(t, http.MethodPost, "/auth/register", body)
		err := h.Register(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %v", name, err)
		}
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"identifier":"juan@icct.edu.ph","password":"supersafe1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "token123") {
		t.Fatalf("token missing from response: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_InvalidCredentialsPropagate(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrInvalidCredentials})

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"identifier":"juan@icct.edu.ph","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected credential error to propagate, got %v", err)
	}
}

func TestAuthHandler_AdminLogin(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(t, http.MethodPost, "/auth/admin/login",
		`{"username":"admin","password":"admin123"}`)
	if err := h.AdminLogin(c); err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "admintoken") {
		t.Fatalf("token missing from response: %s", rec.Body.String())
	}
}
