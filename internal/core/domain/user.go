package domain

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User models a registered portal account. Email and StudentID are unique
// within the users collection (checked by the auth service, not the store).
type User struct {
	ID        string `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	Email     string `json:"email" bson:"email"`
	StudentID string `json:"studentId" bson:"studentId"`
	Campus    string `json:"campus" bson:"campus"`
	// Password holds the bcrypt digest, never plaintext.
	Password  string `json:"password,omitempty" bson:"password"`
	Role      string `json:"role" bson:"role"`
	CreatedAt string `json:"createdAt,omitempty" bson:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty" bson:"updatedAt"`
}

// Sanitized returns a copy safe to hand to transport layers.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
