// Package chat implements the dashboard's assistant widget: an ordered
// message log fed by user input (text, voice, image) and an asynchronous
// reply pipeline with a debounced composing indicator.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"

	"github.com/krishimitra/field-engine/internal/domain"
	"github.com/krishimitra/field-engine/internal/observability"
)

// Responder produces exactly one assistant reply for a user message.
type Responder interface {
	Reply(ctx context.Context, userText string) (string, error)
}

// Recognizer yields a single recognized utterance from a voice capture
// session, or an error. Implementations must return promptly with ctx.Err()
// once the context is cancelled (button released or session closed).
type Recognizer interface {
	Recognize(ctx context.Context) (string, error)
}

// ImageAnalyzer turns an uploaded field image into an opaque analysis
// result string.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, filename string) (string, error)
}

// User-visible texts for the chat channel. Failures always surface here as
// ordinary assistant messages, never as errors to the caller.
const (
	greetingText         = "Hi! Send an image or speak to tell me about a field."
	fallbackReplyText    = "Failed to get reply."
	voiceUnsupportedText = "Voice input is not supported on this device."
	captureFailedText    = "Couldn't capture voice. Please try again or type your message."
	imageSentText        = "[Image sent]"
	imageAckText         = "Image received. Scanning for plant diseases and soil cover..."
	analysisFailedText   = "Analysis failed. Please try another photo."
)

// replyRetries is how many times a failed responder call is retried before
// the fallback message is delivered.
const replyRetries = 1

// Config holds the session's timing knobs.
type Config struct {
	// ReplyDebounce is waited before the responder is invoked so the
	// composing indicator is visible even for instant replies.
	ReplyDebounce time.Duration
	// ImageAnalysisDelay separates the image acknowledgment from the
	// analysis-complete message.
	ImageAnalysisDelay time.Duration
}

// Session is one chat conversation. It owns its liveness: Close cancels all
// in-flight reply and capture work, and any result arriving afterwards is
// silently dropped.
//
// Overlapping PostUser calls fan out: each accepted message gets its own
// independent reply task and delivery order across tasks is not guaranteed.
// The composing indicator stays on until the last outstanding reply lands.
type Session struct {
	cfg       Config
	clock     clockwork.Clock
	responder Responder
	logger    *slog.Logger
	metrics   *observability.Metrics

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	closed        bool
	messages      []domain.ChatMessage
	composing     int
	capture       domain.CaptureState
	captureCancel context.CancelFunc
	recognizer    Recognizer
	analyzer      ImageAnalyzer
}

// NewSession creates a live session seeded with the assistant greeting.
func NewSession(cfg Config, clock clockwork.Clock, responder Responder, logger *slog.Logger, metrics *observability.Metrics) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cfg:       cfg,
		clock:     clock,
		responder: responder,
		logger:    logger,
		metrics:   metrics,
		ctx:       ctx,
		cancel:    cancel,
		capture:   domain.CaptureIdle,
		analyzer:  mockAnalyzer{},
	}
	s.messages = append(s.messages, domain.ChatMessage{Sender: domain.SenderAssistant, Text: greetingText})
	return s
}

// SetRecognizer plugs in a voice capture backend. Without one, StartCapture
// degrades to an unsupported notice.
func (s *Session) SetRecognizer(r Recognizer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recognizer = r
}

// SetAnalyzer replaces the default mock image analyzer.
func (s *Session) SetAnalyzer(a ImageAnalyzer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzer = a
}

// PostUser appends a user message and starts one reply task for it. Text
// that is empty after trimming is ignored: no message, no composing.
func (s *Session) PostUser(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.messages = append(s.messages, domain.ChatMessage{Sender: domain.SenderUser, Text: text})
	s.composing++
	s.mu.Unlock()

	s.metrics.ChatMessages.WithLabelValues(string(domain.SenderUser)).Inc()
	go s.resolveReply(text, s.clock.Now())
}

// resolveReply runs one reply task: debounce, responder with retry, deliver.
// It always either delivers a message or finds the session closed; the
// composing indicator can never stay on forever.
func (s *Session) resolveReply(text string, start time.Time) {
	if !s.sleep(s.cfg.ReplyDebounce) {
		return
	}

	reply, err := s.callResponder(text)
	if err != nil {
		if s.ctx.Err() == nil {
			s.logger.Warn("reply pipeline failed", "error", err)
			s.metrics.ReplyFailures.Inc()
		}
		reply = fallbackReplyText
	} else {
		s.metrics.RepliesResolved.Inc()
		s.metrics.ReplyLatency.Observe(s.clock.Since(start).Seconds())
	}

	s.deliverReply(reply)
}

func (s *Session) callResponder(text string) (string, error) {
	var reply string
	op := func() error {
		r, err := s.responder.Reply(s.ctx, text)
		if err != nil {
			return err
		}
		reply = r
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), replyRetries), s.ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return reply, nil
}

// deliverReply appends the assistant reply and clears one composing slot.
// After Close the delivery is dropped; the liveness check here is what makes
// late pipeline results harmless.
func (s *Session) deliverReply(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.composing > 0 {
		s.composing--
	}
	if s.closed {
		return
	}
	s.messages = append(s.messages, domain.ChatMessage{Sender: domain.SenderAssistant, Text: text})
	s.metrics.ChatMessages.WithLabelValues(string(domain.SenderAssistant)).Inc()
}

// postNotice appends an assistant message without touching the composing
// indicator (capture failures, image analysis results). Dropped after Close.
func (s *Session) postNotice(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.messages = append(s.messages, domain.ChatMessage{Sender: domain.SenderAssistant, Text: text})
	s.metrics.ChatMessages.WithLabelValues(string(domain.SenderAssistant)).Inc()
}

// StartCapture begins a hold-to-speak voice capture. Without a recognizer it
// immediately reports unsupported on the assistant channel and stays idle.
// Starting while already listening is a no-op.
func (s *Session) StartCapture() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.recognizer == nil {
		s.messages = append(s.messages, domain.ChatMessage{Sender: domain.SenderAssistant, Text: voiceUnsupportedText})
		s.metrics.ChatMessages.WithLabelValues(string(domain.SenderAssistant)).Inc()
		s.mu.Unlock()
		return
	}
	if s.capture == domain.CaptureListening {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.capture = domain.CaptureListening
	s.captureCancel = cancel
	s.mu.Unlock()

	s.metrics.CaptureStarts.Inc()
	s.logger.Debug("voice capture started")
	go s.runCapture(ctx)
}

func (s *Session) runCapture(ctx context.Context) {
	text, err := s.recognizer.Recognize(ctx)

	s.mu.Lock()
	s.capture = domain.CaptureIdle
	cancel := s.captureCancel
	s.captureCancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	if err != nil {
		if ctx.Err() != nil {
			// Button released or session closed: not a failure.
			return
		}
		s.logger.Warn("voice capture failed", "error", err)
		s.postNotice(captureFailedText)
		return
	}

	s.logger.Debug("voice capture recognized", "length", len(text))
	s.PostUser(text)
}

// StopCapture ends the capture session (button release). Idempotent.
func (s *Session) StopCapture() {
	s.mu.Lock()
	cancel := s.captureCancel
	s.captureCancel = nil
	s.capture = domain.CaptureIdle
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// SubmitImage records an image upload as a user message and schedules the
// two-stage assistant response: an immediate acknowledgment and a delayed
// analysis result. The reply pipeline is not involved.
func (s *Session) SubmitImage(filename string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.messages = append(s.messages,
		domain.ChatMessage{Sender: domain.SenderUser, Text: imageSentText},
		domain.ChatMessage{Sender: domain.SenderAssistant, Text: imageAckText},
	)
	s.metrics.ChatMessages.WithLabelValues(string(domain.SenderUser)).Inc()
	s.metrics.ChatMessages.WithLabelValues(string(domain.SenderAssistant)).Inc()
	analyzer := s.analyzer
	s.mu.Unlock()

	s.metrics.ImagesSubmitted.Inc()
	go s.runAnalysis(analyzer, filename)
}

func (s *Session) runAnalysis(analyzer ImageAnalyzer, filename string) {
	if !s.sleep(s.cfg.ImageAnalysisDelay) {
		return
	}

	result, err := analyzer.Analyze(s.ctx, filename)
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Warn("image analysis failed", "error", err, "filename", filename)
		result = analysisFailedText
	}
	s.postNotice(result)
}

// Close tears the session down: all pending reply timers and capture work
// are cancelled and any late deliveries are dropped. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.composing = 0
	s.capture = domain.CaptureIdle
	cancel := s.captureCancel
	s.captureCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.cancel()
	s.logger.Debug("chat session closed")
}

// Messages returns a copy of the ordered message log.
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Composing reports whether at least one assistant reply is outstanding.
func (s *Session) Composing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composing > 0
}

// CaptureState returns the current voice capture state.
func (s *Session) CaptureState() domain.CaptureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// sleep waits d on the session clock. It returns false if the session was
// closed first, so callers abandon their work without firing stale timers.
func (s *Session) sleep(d time.Duration) bool {
	if d <= 0 {
		return s.ctx.Err() == nil
	}

	timer := s.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-s.ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
