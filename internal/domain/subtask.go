package domain

// SubTask is one decomposed piece of an aggregation group's work. The sum of
// a group's sub-task hours always equals the group's total hours.
type SubTask struct {
	Description string
	Hours       float64
	TicketID    string
	Confidence  Confidence
}
