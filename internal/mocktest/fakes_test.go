package mocktest

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"

	"github.com/SAP-F-2025/mocktest-service/internal/models"
)

type poolSource struct {
	mu    sync.Mutex
	pool  []models.Question
	err   error
	calls int
}

func newPoolSource(size int) *poolSource {
	pool := make([]models.Question, size)
	for i := range pool {
		pool[i] = models.Question{
			ID:            uint(i + 1),
			Category:      models.CategoryAptitude,
			Text:          fmt.Sprintf("Question %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
		}
	}
	return &poolSource{pool: pool}
}

func (s *poolSource) Sample(_ context.Context, n int) ([]*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if n > len(s.pool) {
		n = len(s.pool)
	}
	out := make([]*models.Question, 0, n)
	for _, i := range rand.Perm(len(s.pool))[:n] {
		q := s.pool[i]
		out = append(out, &q)
	}
	return out, nil
}

type recordingSink struct {
	mu      sync.Mutex
	results []*models.MockResult
}

func (s *recordingSink) Record(result *models.MockResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

func (s *recordingSink) Results() []*models.MockResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.MockResult(nil), s.results...)
}

type emitted struct {
	Event   string
	Payload interface{}
}

type recordingEmitter struct {
	events []emitted
	err    error
}

func (e *recordingEmitter) Emit(event string, payload interface{}) error {
	e.events = append(e.events, emitted{Event: event, Payload: payload})
	return e.err
}

func (e *recordingEmitter) Last() emitted {
	if len(e.events) == 0 {
		return emitted{}
	}
	return e.events[len(e.events)-1]
}

func (e *recordingEmitter) OfType(event string) []emitted {
	var out []emitted
	for _, ev := range e.events {
		if ev.Event == event {
			out = append(out, ev)
		}
	}
	return out
}

func frame(event string, data interface{}) []byte {
	raw, _ := json.Marshal(map[string]interface{}{"type": event, "data": data})
	return raw
}

func intPtr(i int) *int {
	return &i
}
