// Package explain answers user questions, serving repeated ones from the
// answer cache and sending the rest to the answer provider.
package explain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/akhilsharma90/go-explain-bot/pkg/answercache"
	"github.com/akhilsharma90/go-explain-bot/pkg/provider"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 30 * time.Second

var errEmptyAnswer = errors.New("provider returned an empty answer")

// Answer is the result of a successful Handle call.
type Answer struct {
	Text string
	// Cached is set when Text came from the cache and no provider call was made.
	Cached bool
	// AskedBy is who the answer was first generated for.
	AskedBy string
}

// Handler serves explain requests. It is safe for concurrent use.
type Handler struct {
	cache     *answercache.Cache
	generator provider.Generator
	logger    zerolog.Logger
	timeout   time.Duration

	inflight singleflight.Group
	// afterJoin runs once a call is registered with inflight; tests use it to
	// wait for concurrent callers.
	afterJoin func()
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for provider failures and cache activity.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithTimeout bounds each provider call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

// NewHandler creates a Handler. The cache and generator stay owned by the caller.
func NewHandler(cache *answercache.Cache, generator provider.Generator, opts ...Option) *Handler {
	h := &Handler{
		cache:     cache,
		generator: generator,
		logger:    zerolog.Nop(),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle answers question on behalf of requester.
//
// Blank questions fail with KindEmptyQuestion. Cached questions are answered
// without calling the provider. Otherwise the provider is called once and a
// successful answer is cached; provider failures are returned as *Error and
// leave the cache untouched.
//
// Concurrent misses for the same question share one provider call. The shared
// call is detached from ctx cancellation, so a caller that gives up does not
// fail the others; it is still bounded by the handler timeout.
func (h *Handler) Handle(ctx context.Context, question, requester string) (Answer, error) {
	if strings.TrimSpace(question) == "" {
		return Answer{}, &Error{Kind: KindEmptyQuestion}
	}

	if entry, ok := h.cache.Lookup(question); ok {
		h.logger.Debug().
			Str("question", entry.Question).
			Str("requester", requester).
			Str("asked_by", entry.Requester).
			Msg("answer served from cache")
		return Answer{Text: entry.Answer, Cached: true, AskedBy: entry.Requester}, nil
	}

	key := answercache.Normalize(question)
	flight := context.WithoutCancel(ctx)
	ch := h.inflight.DoChan(key, func() (any, error) {
		return h.generate(flight, question, requester)
	})
	if h.afterJoin != nil {
		h.afterJoin()
	}

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res.Err = ctx.Err()
	}

	if res.Err != nil {
		kind := kindFor(res.Err)
		h.logger.Error().
			Err(res.Err).
			Str("kind", kind.String()).
			Str("question", key).
			Str("requester", requester).
			Msg("answer provider failed")
		return Answer{}, &Error{Kind: kind, Err: res.Err}
	}

	answer := res.Val.(Answer)
	if res.Shared {
		h.logger.Debug().Str("question", key).Str("requester", requester).Msg("joined in-flight provider call")
	}
	return answer, nil
}

func (h *Handler) generate(ctx context.Context, question, requester string) (Answer, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := h.generator.Generate(ctx, question)
	if err != nil {
		return Answer{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Answer{}, errEmptyAnswer
	}

	h.cache.Insert(question, text, requester)
	h.logger.Info().
		Str("requester", requester).
		Dur("took", time.Since(started)).
		Int("cache_size", h.cache.Len()).
		Msg("answer generated and cached")

	return Answer{Text: text, AskedBy: requester}, nil
}

// Reply renders the outcome of Handle as the text sent back to the channel.
func Reply(answer Answer, err error) string {
	if err == nil {
		return answer.Text
	}

	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: KindUnknown, Err: err}
	}
	if e.Kind == KindEmptyQuestion {
		return "⚠️ " + e.Hint()
	}
	return "⚠️ OpenAI error: " + e.Hint()
}
