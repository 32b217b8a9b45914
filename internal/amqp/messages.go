package amqp

import (
	"encoding/json"
	"time"
)

// Event actions published on the expense exchange.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// ExpenseEvent notifies consumers that an expense changed. It carries
// only the ID, consumers fetch the row from the database if they need
// more.
type ExpenseEvent struct {
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(action string, id int64) *ExpenseEvent {
	return &ExpenseEvent{
		Action:    action,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var evt ExpenseEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}
