package handler

type registerRequest struct {
	Name            string `json:"name"            validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	StudentID       string `json:"studentId"       validate:"required"`
	Campus          string `json:"campus"          validate:"required"`
	Password        string `json:"password"        validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	// Identifier is an email address or a student id.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type eventRequest struct {
	Title       string `json:"title"       validate:"required"`
	Category    string `json:"category"`
	Campus      string `json:"campus"      validate:"required"`
	Date        string `json:"date"        validate:"required,datetime=2006-01-02"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"    validate:"required,gt=0"`
	Speaker     string `json:"speaker"`
	Image       string `json:"image"`
}

type addToCartRequest struct {
	EventID string `json:"eventId" validate:"required"`
}

type scanRequest struct {
	// Data is a JSON identity payload or a bare student id.
	Data string `json:"data" validate:"required"`
}

type generateQRRequest struct {
	Name      string `json:"name"      validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
	Campus    string `json:"campus"    validate:"required"`
	Email     string `json:"email"     validate:"omitempty,email"`
}

type messageResponse struct {
	Message string `json:"message"`
}
