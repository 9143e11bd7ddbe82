package mocktest

import "github.com/SAP-F-2025/mocktest-service/internal/models"

// State is the position of a session in its lifecycle
type State int

const (
	StateIdle State = iota
	StateAwaitingAnswer
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Session is the progress of one taker through a fixed question sequence.
// It is owned by a single connection and is not safe for concurrent use.
//
// Invariant: len(answers) is the current question index and never exceeds len(questions).
type Session struct {
	takerName    string
	takerContact string
	questions    []models.Question
	answers      []string
	state        State
}

func (s *Session) State() State {
	return s.state
}

// CurrentIndex is the index of the question awaiting an answer
func (s *Session) CurrentIndex() int {
	return len(s.answers)
}

func (s *Session) Total() int {
	return len(s.questions)
}

// begin (re)initializes the session with a sampled question sequence
func (s *Session) begin(name, contact string, questions []models.Question) {
	s.takerName = name
	s.takerContact = contact
	s.questions = questions
	s.answers = make([]string, 0, len(questions))
	s.state = StateAwaitingAnswer
}

// record appends an answer for the current question and reports whether it was the last one
func (s *Session) record(answer string) bool {
	s.answers = append(s.answers, answer)
	if len(s.answers) == len(s.questions) {
		s.state = StateComplete
		return true
	}
	return false
}

// currentQuestion shapes the question awaiting an answer for the client
func (s *Session) currentQuestion() QuestionPayload {
	i := s.CurrentIndex()
	q := s.questions[i]
	return QuestionPayload{
		Index:    i,
		Question: q.Text,
		Options:  append([]string(nil), q.Options...),
	}
}

// Score counts the positions where the answer matches the correct answer after trimming and
// lower-casing. Missing answers never match.
func Score(questions []models.Question, answers []string) int {
	score := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if models.NormalizeAnswer(answers[i]) == "" {
			continue
		}
		if q.IsCorrect(answers[i]) {
			score++
		}
	}
	return score
}
