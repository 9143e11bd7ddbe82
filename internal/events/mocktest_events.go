package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of domain events
type EventType string

const (
	EventMockTestCompleted EventType = "mock_test.completed"
	EventQuestionsImported EventType = "questions.imported"
)

const (
	eventSource  = "mocktest-service"
	eventVersion = "1.0"
)

// Event is the envelope shared by all published events
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`

	// Key groups related events on the broker; test takers are keyed by contact
	Key string `json:"-"`
}

type MockTestCompletedEvent struct {
	ResultID     uint      `json:"result_id"`
	TakerName    string    `json:"taker_name"`
	TakerContact string    `json:"taker_contact"`
	Score        int       `json:"score"`
	Total        int       `json:"total"`
	CompletedAt  time.Time `json:"completed_at"`
}

type QuestionsImportedEvent struct {
	Created  int `json:"created"`
	Rejected int `json:"rejected"`
}

func NewMockTestCompletedEvent(resultID uint, name, contact string, score, total int, completedAt time.Time) *Event {
	event := newEvent(EventMockTestCompleted, MockTestCompletedEvent{
		ResultID:     resultID,
		TakerName:    name,
		TakerContact: contact,
		Score:        score,
		Total:        total,
		CompletedAt:  completedAt,
	})
	event.Key = contact
	return event
}

func NewQuestionsImportedEvent(created, rejected int) *Event {
	return newEvent(EventQuestionsImported, QuestionsImportedEvent{
		Created:  created,
		Rejected: rejected,
	})
}

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// GenerateEventID returns a random unique event identifier
func GenerateEventID() string {
	return uuid.NewString()
}
