package mocktest

import "encoding/json"

// Event names carried in the "type" field of every frame
const (
	EventStartTest = "start_test"
	EventAnswer    = "answer"
	EventQuestion  = "question"
	EventResult    = "result"
	EventError     = "error_message"
)

// Messages sent with error_message
const (
	MsgStartFailed    = "Unable to start test"
	MsgNoActiveTest   = "No test in progress, send start_test first"
	MsgTestCompleted  = "Test already completed"
	MsgTestInProgress = "Test already in progress"
	MsgMalformedFrame = "Malformed message"
	MsgUnknownEvent   = "Unknown event"
	MsgInvalidPayload = "Invalid payload"

	MsgTestFinished = "Test Completed!"
)

// InboundMessage is a client frame; Data is decoded once Type is known
type InboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// OutboundMessage is a server frame
type OutboundMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type StartPayload struct {
	Name   string `json:"name" validate:"required,notblank,max=100"`
	Mobile string `json:"mobile" validate:"required,notblank,max=20"`
}

// AnswerPayload carries the client's answer. Index is only a correlation hint.
type AnswerPayload struct {
	Index  *int   `json:"index"`
	Answer string `json:"answer"`
}

// QuestionPayload never includes the correct answer
type QuestionPayload struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type ResultPayload struct {
	Message string `json:"message"`
	Score   int    `json:"score"`
	Total   int    `json:"total"`
}
