package domain

// CartItem is a denormalized reference to an event held pending registration.
// Registered and Capacity are a snapshot taken when the line was added.
type CartItem struct {
	EventID    string `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Location   string `json:"location"`
	Campus     string `json:"campus"`
	Capacity   int    `json:"capacity"`
	Registered int    `json:"registered"`
}
