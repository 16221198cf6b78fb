package formula

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nickandperla.net/formula/internal/classify"
	"nickandperla.net/formula/internal/eval"
	"nickandperla.net/formula/internal/provider"
	"nickandperla.net/formula/internal/sequence"
	"nickandperla.net/formula/internal/store"
	"nickandperla.net/formula/internal/suggest"
	"nickandperla.net/formula/internal/token"
)

var (
	// ErrNotTag is returned when a tag operation targets another token kind.
	ErrNotTag = errors.New("token is not a tag")
	// ErrUnknownOption is returned for an option label the session does not offer.
	ErrUnknownOption = errors.New("unknown tag option")
)

// DefaultTagOptions are the option labels offered when none are configured.
var DefaultTagOptions = []string{"Option 1", "Option 2"}

// State is what a front end renders after a transition.
type State struct {
	Tokens []token.Token
	Cursor int
	Result eval.Result
}

// fetchedAter is implemented by caches that record when they were saved.
type fetchedAter interface {
	FetchedAt() (time.Time, error)
}

// Observer receives the state after every transition.
type Observer func(State)

// Session is one user's formula editing session. Editing methods must be
// called from a single goroutine; suggestion fetching runs in the
// background and only ever swaps the snapshot.
type Session struct {
	id          string
	seq         *sequence.Sequence
	evaluator   *eval.Evaluator
	result      eval.Result
	provider    provider.Provider
	cache       store.Store
	snapshot    atomic.Pointer[suggest.Snapshot]
	unresolved  float64
	tagOptions  []string
	filterMode  suggest.Mode
	filterLimit int
	logger      *zap.Logger
	observers   []Observer
	setupErrs   []error

	fetchMu sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a session with the given options.
func New(opts ...Option) *Session {
	s := &Session{
		id:          uuid.New().String(),
		seq:         sequence.New(),
		unresolved:  eval.DefaultUnresolvedValue,
		tagOptions:  slices.Clone(DefaultTagOptions),
		filterMode:  suggest.ModeSubstring,
		filterLimit: 8,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With(zap.String("session", s.id))
	for _, err := range s.setupErrs {
		s.logger.Warn("suggestion cache unavailable", zap.Error(err))
	}
	s.evaluator = eval.New(eval.WithUnresolvedValue(s.unresolved))
	s.result = s.evaluator.Evaluate(nil)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Start loads cached suggestions, then fetches fresh ones in the
// background. Editing works immediately; tags match once data arrives.
// Calling Start again is a no-op.
func (s *Session) Start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true

	if s.cache != nil {
		items, err := s.cache.Load()
		if err != nil {
			s.logger.Warn("failed to load suggestion cache", zap.Error(err))
		} else if len(items) > 0 {
			s.snapshot.Store(suggest.NewSnapshot(items))
			fields := []zap.Field{zap.Int("count", len(items))}
			if fc, ok := s.cache.(fetchedAter); ok {
				if at, err := fc.FetchedAt(); err == nil && !at.IsZero() {
					fields = append(fields, zap.Time("fetched_at", at))
				}
			}
			s.logger.Info("loaded cached suggestions", fields...)
		}
	}

	if s.provider == nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.Refresh(ctx)
	}()
}

// Refresh fetches suggestions now and swaps in the new snapshot. On failure
// the current snapshot is kept.
func (s *Session) Refresh(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	items, err := s.provider.Fetch(ctx)
	if err != nil {
		s.logger.Warn("suggestion fetch failed", zap.Error(err))
		return fmt.Errorf("refresh suggestions: %w", err)
	}
	s.snapshot.Store(suggest.NewSnapshot(items))
	s.logger.Info("suggestions updated", zap.Int("count", len(items)))

	if s.cache != nil {
		if err := s.cache.Save(items); err != nil {
			s.logger.Warn("failed to save suggestion cache", zap.Error(err))
		}
	}
	return nil
}

// Snapshot returns the current suggestion snapshot, possibly nil.
func (s *Session) Snapshot() *suggest.Snapshot {
	return s.snapshot.Load()
}

// Suggestions returns the dropdown candidates for query.
func (s *Session) Suggestions(query string) []provider.Suggestion {
	return s.snapshot.Load().Filter(query, s.filterMode, s.filterLimit)
}

// TagOptions returns the option labels a tag may carry.
func (s *Session) TagOptions() []string {
	return slices.Clone(s.tagOptions)
}

// Submit classifies a finalized fragment and inserts it at the cursor.
// It returns false, changing nothing, when the fragment is rejected.
func (s *Session) Submit(fragment string) bool {
	tok, ok := classify.Fragment(fragment, s.snapshot.Load())
	if !ok {
		s.logger.Debug("fragment rejected", zap.String("fragment", fragment))
		return false
	}
	s.insert(tok)
	return true
}

// Pick inserts the tag for a dropdown selection at the cursor. It returns
// false, changing nothing, for a record without a name.
func (s *Session) Pick(sug provider.Suggestion) bool {
	tag, err := classify.Suggestion(sug)
	if err != nil {
		s.logger.Debug("suggestion rejected", zap.String("id", sug.ID), zap.Error(err))
		return false
	}
	s.insert(tag)
	return true
}

func (s *Session) insert(tok token.Token) {
	if tag, ok := tok.(token.Tag); ok && tag.Option == "" && len(s.tagOptions) > 0 {
		tok = tag.WithOption(s.tagOptions[0], nil)
	}
	at := s.seq.Cursor()
	s.seq.InsertAtCursor(tok)
	s.changed("insert", zap.Int("index", at), zap.Stringer("kind", tok.Kind()), zap.String("text", tok.String()))
}

// Backspace deletes the token before the cursor.
func (s *Session) Backspace() bool {
	at := s.seq.Cursor() - 1
	if !s.seq.Backspace() {
		return false
	}
	s.changed("backspace", zap.Int("index", at))
	return true
}

// Remove deletes the token at index. Out-of-range indices are ignored.
func (s *Session) Remove(index int) bool {
	if !s.seq.RemoveAt(index) {
		return false
	}
	s.changed("remove", zap.Int("index", index))
	return true
}

// SetTagOption applies option to the tag at index. A nil value keeps the
// tag's current value.
func (s *Session) SetTagOption(index int, option string, value *float64) error {
	tag, ok := s.seq.At(index).(token.Tag)
	if !ok {
		return fmt.Errorf("%w: index %d", ErrNotTag, index)
	}
	if !slices.Contains(s.tagOptions, option) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}
	s.seq.ReplaceAt(index, tag.WithOption(option, value))
	s.changed("option", zap.Int("index", index), zap.String("option", option))
	return nil
}

// Select moves the cursor to just after token index.
func (s *Session) Select(index int) {
	s.seq.SelectToken(index)
	s.notify()
}

// MoveCursor shifts the cursor by delta tokens.
func (s *Session) MoveCursor(delta int) {
	s.seq.MoveCursor(delta)
	s.notify()
}

// Clear empties the formula.
func (s *Session) Clear() {
	s.seq.Reset()
	s.changed("clear")
}

// State returns the current tokens, cursor and result.
func (s *Session) State() State {
	return State{
		Tokens: s.seq.Tokens(),
		Cursor: s.seq.Cursor(),
		Result: s.result,
	}
}

// Result returns the latest evaluation.
func (s *Session) Result() eval.Result {
	return s.result
}

// changed re-evaluates the whole sequence after a mutation.
func (s *Session) changed(op string, fields ...zap.Field) {
	s.result = s.evaluator.Evaluate(s.seq.Tokens())
	fields = append(fields,
		zap.Int("len", s.seq.Len()),
		zap.Int("cursor", s.seq.Cursor()),
		zap.String("expression", s.result.Expression),
		zap.String("result", s.result.String()),
	)
	s.logger.Debug(op, fields...)
	s.notify()
}

func (s *Session) notify() {
	if len(s.observers) == 0 {
		return
	}
	st := s.State()
	for _, fn := range s.observers {
		fn(st)
	}
}

// Close stops background work and releases the cache.
func (s *Session) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
