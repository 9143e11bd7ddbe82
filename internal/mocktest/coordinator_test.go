package mocktest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/utils"
	"github.com/SAP-F-2025/mocktest-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestCoordinator(source QuestionSource, sink ResultSink, opts Options) *Coordinator {
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return NewCoordinator(source, sink, validator.New(), utils.NewNopLogger(), opts)
}

func startPayload() StartPayload {
	return StartPayload{Name: "Asha", Mobile: "9876543210"}
}

func TestConn_FullRunScoresAndRecords(t *testing.T) {
	source := newPoolSource(20)
	sink := &recordingSink{}
	emitter := &recordingEmitter{}
	conn := newTestCoordinator(source, sink, Options{QuestionCount: 5}).NewConn("c1", emitter)
	ctx := context.Background()

	require.NoError(t, conn.Start(ctx, startPayload()))
	assert.Equal(t, StateAwaitingAnswer, conn.State())

	answers := []string{"A", " a ", "B", "", "A"}
	for i, answer := range answers {
		require.NoError(t, conn.Answer(ctx, AnswerPayload{Index: intPtr(i), Answer: answer}))
	}

	questions := emitter.OfType(EventQuestion)
	require.Len(t, questions, 5)
	for i, ev := range questions {
		payload := ev.Payload.(QuestionPayload)
		assert.Equal(t, i, payload.Index)
		assert.Len(t, payload.Options, 4)
	}

	last := emitter.Last()
	assert.Equal(t, EventResult, last.Event)
	assert.Equal(t, ResultPayload{Message: MsgTestFinished, Score: 3, Total: 5}, last.Payload)
	assert.Equal(t, StateComplete, conn.State())

	results := sink.Results()
	require.Len(t, results, 1)
	result := results[0]
	assert.Equal(t, "Asha", result.TakerName)
	assert.Equal(t, "9876543210", result.TakerContact)
	assert.Equal(t, "c1", result.ConnectionID)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, fixedNow, result.CompletedAt)
	assert.Equal(t, answers, []string(result.Answers))
	assert.Len(t, result.Questions, 5)
}

func TestConn_QuestionsAreDistinct(t *testing.T) {
	emitter := &recordingEmitter{}
	conn := newTestCoordinator(newPoolSource(15), &recordingSink{}, Options{QuestionCount: 15}).NewConn("c1", emitter)
	ctx := context.Background()

	require.NoError(t, conn.Start(ctx, startPayload()))
	for i := 0; i < 15; i++ {
		require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "A"}))
	}

	seen := map[string]bool{}
	for _, ev := range emitter.OfType(EventQuestion) {
		text := ev.Payload.(QuestionPayload).Question
		assert.False(t, seen[text], "question %q repeated", text)
		seen[text] = true
	}
	assert.Len(t, seen, 15)
}

func TestConn_SmallPoolShortensTest(t *testing.T) {
	sink := &recordingSink{}
	emitter := &recordingEmitter{}
	conn := newTestCoordinator(newPoolSource(3), sink, Options{QuestionCount: 15}).NewConn("c1", emitter)
	ctx := context.Background()

	require.NoError(t, conn.Start(ctx, startPayload()))
	for i := 0; i < 3; i++ {
		require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "B"}))
	}

	assert.Equal(t, ResultPayload{Message: MsgTestFinished, Score: 0, Total: 3}, emitter.Last().Payload)
	require.Len(t, sink.Results(), 1)
	assert.Equal(t, 3, sink.Results()[0].Total)
}

func TestConn_AnswerBeforeStart(t *testing.T) {
	sink := &recordingSink{}
	emitter := &recordingEmitter{}
	conn := newTestCoordinator(newPoolSource(5), sink, Options{}).NewConn("c1", emitter)

	require.NoError(t, conn.Answer(context.Background(), AnswerPayload{Answer: "A"}))

	assert.Equal(t, emitted{Event: EventError, Payload: MsgNoActiveTest}, emitter.Last())
	assert.Equal(t, StateIdle, conn.State())
	assert.Empty(t, sink.Results())
}

func TestConn_AnswerAfterCompletion(t *testing.T) {
	sink := &recordingSink{}
	emitter := &recordingEmitter{}
	conn := newTestCoordinator(newPoolSource(5), sink, Options{QuestionCount: 1}).NewConn("c1", emitter)
	ctx := context.Background()

	require.NoError(t, conn.Start(ctx, startPayload()))
	require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "A"}))
	require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "A"}))

	assert.Equal(t, emitted{Event: EventError, Payload: MsgTestCompleted}, emitter.Last())
	assert.Len(t, sink.Results(), 1)
	assert.Len(t, emitter.OfType(EventResult), 1)
}

func TestConn_StartAfterCompletionRejected(t *testing.T) {
	source := newPoolSource(5)
	emitter := &recordingEmitter{}
	conn := newTestCoordinator(source, &recordingSink{}, Options{QuestionCount: 1}).NewConn("c1", emitter)
	ctx := context.Background()

	require.NoError(t, conn.Start(ctx, startPayload()))
	require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "A"}))
	require.NoError(t, conn.Start(ctx, startPayload()))

	assert.Equal(t, emitted{Event: EventError, Payload: MsgTestCompleted}, emitter.Last())
	assert.Equal(t, 1, source.calls)
}

func TestConn_RestartPolicy(t *testing.T) {
	t.Run("restart reinitializes the session", func(t *testing.T) {
		source := newPoolSource(10)
		emitter := &recordingEmitter{}
		conn := newTestCoordinator(source, &recordingSink{}, Options{QuestionCount: 3}).NewConn("c1", emitter)
		ctx := context.Background()

		require.NoError(t, conn.Start(ctx, startPayload()))
		require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "A"}))
		require.NoError(t, conn.Start(ctx, StartPayload{Name: "Ravi", Mobile: "9000000000"}))

		last := emitter.Last()
		assert.Equal(t, EventQuestion, last.Event)
		assert.Equal(t, 0, last.Payload.(QuestionPayload).Index)
		assert.Equal(t, 2, source.calls)
	})

	t.Run("reject keeps the running session", func(t *testing.T) {
		source := newPoolSource(10)
		emitter := &recordingEmitter{}
		conn := newTestCoordinator(source, &recordingSink{}, Options{
			QuestionCount: 3,
			RestartPolicy: RestartPolicyReject,
		}).NewConn("c1", emitter)
		ctx := context.Background()

		require.NoError(t, conn.Start(ctx, startPayload()))
		require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "A"}))
		require.NoError(t, conn.Start(ctx, startPayload()))

		assert.Equal(t, emitted{Event: EventError, Payload: MsgTestInProgress}, emitter.Last())
		require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "A"}))
		assert.Equal(t, 2, emitter.Last().Payload.(QuestionPayload).Index)
		assert.Equal(t, 1, source.calls)
	})
}

func TestConn_StartFailures(t *testing.T) {
	tests := []struct {
		name    string
		source  *poolSource
		payload StartPayload
		want    string
	}{
		{"store error", &poolSource{err: errors.New("db down")}, startPayload(), MsgStartFailed},
		{"empty pool", &poolSource{}, startPayload(), MsgStartFailed},
		{"missing name", newPoolSource(5), StartPayload{Mobile: "9876543210"}, "validation failed: name is required"},
		{"blank mobile", newPoolSource(5), StartPayload{Name: "Asha", Mobile: "   "}, "validation failed: mobile must not be blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emitter := &recordingEmitter{}
			conn := newTestCoordinator(tt.source, &recordingSink{}, Options{}).NewConn("c1", emitter)

			require.NoError(t, conn.Start(context.Background(), tt.payload))

			last := emitter.Last()
			assert.Equal(t, EventError, last.Event)
			assert.Contains(t, last.Payload, tt.want)
			assert.Equal(t, StateIdle, conn.State())
		})
	}
}

func TestConn_FailedRestartKeepsSession(t *testing.T) {
	source := newPoolSource(10)
	emitter := &recordingEmitter{}
	conn := newTestCoordinator(source, &recordingSink{}, Options{QuestionCount: 3}).NewConn("c1", emitter)
	ctx := context.Background()

	require.NoError(t, conn.Start(ctx, startPayload()))
	require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "A"}))

	source.err = errors.New("db down")
	require.NoError(t, conn.Start(ctx, startPayload()))
	assert.Equal(t, emitted{Event: EventError, Payload: MsgStartFailed}, emitter.Last())

	require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "A"}))
	assert.Equal(t, 2, emitter.Last().Payload.(QuestionPayload).Index)
}

func TestConn_ClientIndexIsAdvisory(t *testing.T) {
	emitter := &recordingEmitter{}
	conn := newTestCoordinator(newPoolSource(5), &recordingSink{}, Options{QuestionCount: 3}).NewConn("c1", emitter)
	ctx := context.Background()

	require.NoError(t, conn.Start(ctx, startPayload()))
	require.NoError(t, conn.Answer(ctx, AnswerPayload{Index: intPtr(7), Answer: "A"}))

	assert.Equal(t, 1, emitter.Last().Payload.(QuestionPayload).Index)
}

func TestConn_QuestionPayloadHidesCorrectAnswer(t *testing.T) {
	emitter := &recordingEmitter{}
	conn := newTestCoordinator(newPoolSource(5), &recordingSink{}, Options{QuestionCount: 1}).NewConn("c1", emitter)

	require.NoError(t, conn.HandleFrame(context.Background(), frame(EventStartTest, startPayload())))

	raw, err := jsonString(OutboundMessage{Type: EventQuestion, Data: emitter.Last().Payload})
	require.NoError(t, err)
	assert.NotContains(t, raw, "correct")
	assert.Contains(t, raw, `"index":0`)
}

func TestConn_HandleFrame(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  emitted
	}{
		{"not json", []byte("{nope"), emitted{Event: EventError, Payload: MsgMalformedFrame}},
		{"unknown type", frame("pause", nil), emitted{Event: EventError, Payload: fmt.Sprintf("%s: %q", MsgUnknownEvent, "pause")}},
		{"bad start data", []byte(`{"type":"start_test","data":"Asha"}`), emitted{Event: EventError, Payload: MsgInvalidPayload}},
		{"answer before start", frame(EventAnswer, map[string]interface{}{"index": 0, "answer": "A"}), emitted{Event: EventError, Payload: MsgNoActiveTest}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emitter := &recordingEmitter{}
			conn := newTestCoordinator(newPoolSource(5), &recordingSink{}, Options{}).NewConn("c1", emitter)

			require.NoError(t, conn.HandleFrame(context.Background(), tt.frame))
			assert.Equal(t, tt.want, emitter.Last())
			assert.Equal(t, StateIdle, conn.State())
		})
	}
}

func TestConn_AnswerWithoutPayloadIsRejected(t *testing.T) {
	for _, raw := range []string{`{"type":"answer"}`, `{"type":"answer","data":null}`} {
		t.Run(raw, func(t *testing.T) {
			emitter := &recordingEmitter{}
			conn := newTestCoordinator(newPoolSource(5), &recordingSink{}, Options{QuestionCount: 3}).NewConn("c1", emitter)
			ctx := context.Background()
			require.NoError(t, conn.Start(ctx, startPayload()))

			require.NoError(t, conn.HandleFrame(ctx, []byte(raw)))

			assert.Equal(t, emitted{Event: EventError, Payload: MsgInvalidPayload}, emitter.Last())
			assert.Equal(t, 0, conn.Answered())
			assert.Equal(t, StateAwaitingAnswer, conn.State())
		})
	}
}

func TestConn_EmitErrorIsReturned(t *testing.T) {
	emitter := &recordingEmitter{err: errors.New("broken pipe")}
	conn := newTestCoordinator(newPoolSource(5), &recordingSink{}, Options{}).NewConn("c1", emitter)

	err := conn.Start(context.Background(), startPayload())
	assert.EqualError(t, err, "broken pipe")
}

func TestConn_CloseDiscardsUnfinishedSession(t *testing.T) {
	sink := &recordingSink{}
	conn := newTestCoordinator(newPoolSource(5), sink, Options{QuestionCount: 3}).NewConn("c1", &recordingEmitter{})
	ctx := context.Background()

	require.NoError(t, conn.Start(ctx, startPayload()))
	require.NoError(t, conn.Answer(ctx, AnswerPayload{Answer: "A"}))
	conn.Close()

	assert.Equal(t, StateIdle, conn.State())
	assert.Empty(t, sink.Results())
}

func TestConn_SessionsAreIsolated(t *testing.T) {
	source := newPoolSource(30)
	sink := &recordingSink{}
	coord := newTestCoordinator(source, sink, Options{QuestionCount: 10})

	const connections = 8
	var wg sync.WaitGroup
	for c := 0; c < connections; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			conn := coord.NewConn(fmt.Sprintf("c%d", c), &recordingEmitter{})
			ctx := context.Background()
			_ = conn.Start(ctx, StartPayload{Name: fmt.Sprintf("taker-%d", c), Mobile: "9876543210"})
			for i := 0; i < 10; i++ {
				answer := "B"
				if i < c {
					answer = "A"
				}
				_ = conn.Answer(ctx, AnswerPayload{Answer: answer})
			}
		}(c)
	}
	wg.Wait()

	results := sink.Results()
	require.Len(t, results, connections)
	for _, r := range results {
		var c int
		_, err := fmt.Sscanf(r.TakerName, "taker-%d", &c)
		require.NoError(t, err)
		assert.Equal(t, c, r.Score, "taker %s", r.TakerName)
		assert.Equal(t, fmt.Sprintf("c%d", c), r.ConnectionID)
	}
}
