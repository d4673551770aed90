package domain

const RegistrationStatusRegistered = "registered"

// Registration links a user to an event. At most one registration exists per
// (UserID, EventID) pair; the cart checkout checks this, the store does not.
type Registration struct {
	ID           string `json:"id" bson:"id"`
	UserID       string `json:"userId" bson:"userId"`
	EventID      string `json:"eventId" bson:"eventId"`
	StudentID    string `json:"studentId" bson:"studentId"`
	StudentName  string `json:"studentName" bson:"studentName"`
	Campus       string `json:"campus" bson:"campus"`
	RegisteredAt string `json:"registeredAt" bson:"registeredAt"`
	Status       string `json:"status" bson:"status"`
}

const (
	AttendanceStatusPresent = "Present"
	ScanMethodAdminManual   = "Admin Manual Scan"
)

// Attendance is a single presence record captured by the admin scanner.
type Attendance struct {
	ID          string `json:"id" bson:"id"`
	StudentID   string `json:"studentId" bson:"studentId"`
	StudentName string `json:"studentName" bson:"studentName"`
	Campus      string `json:"campus" bson:"campus"`
	Timestamp   string `json:"timestamp" bson:"timestamp"`
	Status      string `json:"status" bson:"status"`
	ScanMethod  string `json:"scanMethod" bson:"scanMethod"`
}
