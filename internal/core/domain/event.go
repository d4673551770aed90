package domain

const (
	EventStatusUpcoming = "upcoming"

	DefaultEventImage = "assets/images/events/default.jpg"
)

// Event is a campus event open for registration. Date is an ISO yyyy-mm-dd
// string; ordering and the upcoming cutoff use lexical comparison.
// Registered ≤ Capacity is intended but not atomically enforced: the counter
// is maintained by read-modify-write callers.
type Event struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	Category    string `json:"category" bson:"category"`
	Campus      string `json:"campus" bson:"campus"`
	Date        string `json:"date" bson:"date"`
	Time        string `json:"time" bson:"time"`
	Location    string `json:"location" bson:"location"`
	Description string `json:"description" bson:"description"`
	Capacity    int    `json:"capacity" bson:"capacity"`
	Registered  int    `json:"registered" bson:"registered"`
	Speaker     string `json:"speaker" bson:"speaker"`
	Image       string `json:"image" bson:"image"`
	Status      string `json:"status" bson:"status"`
	CreatedAt   string `json:"createdAt,omitempty" bson:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty" bson:"updatedAt"`
}

// IsFull reports whether the event has no seats left.
func (e Event) IsFull() bool {
	return e.Registered >= e.Capacity
}

// FillRate returns the registered/capacity ratio used for popularity sorting.
func (e Event) FillRate() float64 {
	if e.Capacity <= 0 {
		return 0
	}
	return float64(e.Registered) / float64(e.Capacity)
}
