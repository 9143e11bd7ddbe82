package mocktest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/models"
	"github.com/SAP-F-2025/mocktest-service/internal/utils"
	"github.com/SAP-F-2025/mocktest-service/internal/validator"
)

// QuestionSource supplies a uniform random sample of questions
type QuestionSource interface {
	Sample(ctx context.Context, n int) ([]*models.Question, error)
}

// ResultSink stores completed results. Record must not block on storage.
type ResultSink interface {
	Record(result *models.MockResult)
}

// Emitter sends one named event to the connection it belongs to
type Emitter interface {
	Emit(event string, payload interface{}) error
}

// RestartPolicy decides what a start_test does while a test is running
type RestartPolicy string

const (
	RestartPolicyRestart RestartPolicy = "restart"
	RestartPolicyReject  RestartPolicy = "reject"
)

type Options struct {
	QuestionCount int
	RestartPolicy RestartPolicy
	SampleTimeout time.Duration
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.QuestionCount <= 0 {
		o.QuestionCount = 15
	}
	if o.RestartPolicy == "" {
		o.RestartPolicy = RestartPolicyRestart
	}
	if o.SampleTimeout <= 0 {
		o.SampleTimeout = 5 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Coordinator holds what sessions share: the question source, the result sink and settings
type Coordinator struct {
	source    QuestionSource
	sink      ResultSink
	validator *validator.Validator
	logger    utils.Logger
	opts      Options
}

func NewCoordinator(source QuestionSource, sink ResultSink, v *validator.Validator, logger utils.Logger, opts Options) *Coordinator {
	return &Coordinator{
		source:    source,
		sink:      sink,
		validator: v,
		logger:    logger,
		opts:      opts.withDefaults(),
	}
}

// Conn drives the session of one connection. Calls must come from a single goroutine,
// in the order frames arrived.
type Conn struct {
	id      string
	coord   *Coordinator
	emitter Emitter
	logger  utils.Logger
	session Session
}

func (c *Coordinator) NewConn(id string, emitter Emitter) *Conn {
	return &Conn{
		id:      id,
		coord:   c,
		emitter: emitter,
		logger:  c.logger.With("conn_id", id),
	}
}

func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) State() State {
	return c.session.State()
}

// Answered is the number of answers recorded in the current session
func (c *Conn) Answered() int {
	return c.session.CurrentIndex()
}

// HandleFrame decodes a raw client frame and dispatches it. The returned error is a
// transport error; protocol problems are reported to the client instead.
func (c *Conn) HandleFrame(ctx context.Context, frame []byte) error {
	var msg InboundMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		c.logger.Debug("Malformed frame", "error", err)
		return c.emitError(MsgMalformedFrame)
	}

	switch msg.Type {
	case EventStartTest:
		var payload StartPayload
		if err := decodeData(msg.Data, &payload); err != nil {
			return c.emitError(MsgInvalidPayload)
		}
		return c.Start(ctx, payload)
	case EventAnswer:
		var payload AnswerPayload
		if isEmptyData(msg.Data) {
			return c.emitError(MsgInvalidPayload)
		}
		if err := decodeData(msg.Data, &payload); err != nil {
			return c.emitError(MsgInvalidPayload)
		}
		return c.Answer(ctx, payload)
	default:
		c.logger.Debug("Unknown event", "type", msg.Type)
		return c.emitError(fmt.Sprintf("%s: %q", MsgUnknownEvent, msg.Type))
	}
}

// Start samples questions and sends the first one
func (c *Conn) Start(ctx context.Context, payload StartPayload) error {
	switch c.session.State() {
	case StateComplete:
		return c.emitError(MsgTestCompleted)
	case StateAwaitingAnswer:
		if c.coord.opts.RestartPolicy == RestartPolicyReject {
			return c.emitError(MsgTestInProgress)
		}
		c.logger.Warn("Restarting test in progress, answers discarded",
			"answered", c.session.CurrentIndex(),
			"total", c.session.Total())
	}

	if c.coord.validator != nil {
		if err := c.coord.validator.ValidateStruct(payload); err != nil {
			return c.emitError(err.Error())
		}
	}

	questions, err := c.sample(ctx)
	if err != nil {
		c.logger.Error("Failed to start test", "error", err)
		return c.emitError(MsgStartFailed)
	}

	c.session.begin(payload.Name, payload.Mobile, questions)
	c.logger.Info("Mock test started",
		"name", payload.Name,
		"questions", len(questions))

	return c.emitter.Emit(EventQuestion, c.session.currentQuestion())
}

// Answer records an answer for the server-side current question
func (c *Conn) Answer(ctx context.Context, payload AnswerPayload) error {
	switch c.session.State() {
	case StateIdle:
		return c.emitError(MsgNoActiveTest)
	case StateComplete:
		return c.emitError(MsgTestCompleted)
	}

	index := c.session.CurrentIndex()
	if payload.Index != nil && *payload.Index != index {
		c.logger.Debug("Client index differs from server index, using server index",
			"client_index", *payload.Index,
			"server_index", index)
	}

	if done := c.session.record(payload.Answer); !done {
		return c.emitter.Emit(EventQuestion, c.session.currentQuestion())
	}

	result := c.buildResult()
	c.coord.sink.Record(result)
	c.logger.Info("Mock test completed",
		"score", result.Score,
		"total", result.Total)

	return c.emitter.Emit(EventResult, ResultPayload{
		Message: MsgTestFinished,
		Score:   result.Score,
		Total:   result.Total,
	})
}

// Close is called when the transport goes away; unfinished sessions are dropped
func (c *Conn) Close() {
	if c.session.State() == StateAwaitingAnswer {
		c.logger.Info("Connection closed before test completion, session discarded",
			"answered", c.session.CurrentIndex(),
			"total", c.session.Total())
	}
	c.session = Session{}
}

func (c *Conn) sample(ctx context.Context) ([]models.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, c.coord.opts.SampleTimeout)
	defer cancel()

	sampled, err := c.coord.source.Sample(ctx, c.coord.opts.QuestionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}

	questions := make([]models.Question, 0, len(sampled))
	for _, q := range sampled {
		if q != nil {
			questions = append(questions, *q)
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("question pool is empty")
	}
	return questions, nil
}

func (c *Conn) buildResult() *models.MockResult {
	s := &c.session
	snapshot := make([]models.ResultQuestion, len(s.questions))
	for i, q := range s.questions {
		snapshot[i] = models.SnapshotQuestion(q)
	}

	return &models.MockResult{
		TakerName:    s.takerName,
		TakerContact: s.takerContact,
		ConnectionID: c.id,
		Questions:    snapshot,
		Answers:      append([]string(nil), s.answers...),
		Score:        Score(s.questions, s.answers),
		Total:        len(s.questions),
		CompletedAt:  c.coord.opts.Now(),
	}
}

func (c *Conn) emitError(message string) error {
	return c.emitter.Emit(EventError, message)
}

func isEmptyData(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}

func decodeData(data json.RawMessage, dest interface{}) error {
	if isEmptyData(data) {
		return nil
	}
	return json.Unmarshal(data, dest)
}
