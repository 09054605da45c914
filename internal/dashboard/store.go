// Package dashboard owns the session state: the user's configuration, the last
// analysis result and the presentation state (view mode, detail overlay, loading).
// Every change goes through a Store method; listeners receive a Snapshot after each one.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/quantumedge/internal/advisory"
	"github.com/wonny/quantumedge/internal/contracts"
	"github.com/wonny/quantumedge/internal/scoring"
	"github.com/wonny/quantumedge/internal/settings"
	"github.com/wonny/quantumedge/pkg/logger"
)

// ViewMode selects which projection of the result is shown
type ViewMode string

const (
	ViewPortfolio ViewMode = "portfolio" // recommended candidates as cards
	ViewMarket    ViewMode = "market"    // every candidate as a table
)

// ParseViewMode validates a view mode name
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewPortfolio, ViewMarket:
		return ViewMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
}

// ViewState is what the result panel currently shows
type ViewState string

const (
	StateEmpty     ViewState = "empty"
	StateLoading   ViewState = "loading"
	StatePortfolio ViewState = "portfolio"
	StateMarket    ViewState = "market"
)

var (
	ErrAnalysisInFlight  = errors.New("an analysis is already running")
	ErrAnalysisFailed    = errors.New("analysis failed")
	ErrNoResults         = errors.New("no analysis result to show")
	ErrCandidateNotFound = errors.New("candidate not found in the current result")
	ErrInvalidViewMode   = errors.New("invalid view mode")
)

// FailureMessage is the notice raised for every failed analysis, whatever the cause
const FailureMessage = "Gagal koneksi. Pastikan layanan scoring sudah berjalan, lalu coba lagi."

// Notice is a user-visible failure message
type Notice struct {
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Listener receives a snapshot after every state transition
type Listener func(Snapshot)

// Store is the single owner of dashboard state
// ⭐ SSOT: dashboard state changes only through Store methods
type Store struct {
	analyzer scoring.Analyzer
	logger   *logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	config    settings.Configuration
	result    *contracts.AnalysisResult
	viewMode  ViewMode
	selected  *contracts.Candidate // points into result.Candidates
	loading   bool
	requestID string
	notice    *Notice
	version   uint64

	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store with the default configuration and no result
func NewStore(analyzer scoring.Analyzer, log *logger.Logger) *Store {
	return &Store{
		analyzer:  analyzer,
		logger:    log,
		now:       time.Now,
		config:    settings.Default(),
		viewMode:  ViewPortfolio,
		listeners: make(map[int]Listener),
	}
}

// ─── Configuration ───────────────────────────────────────────

// Config returns a copy of the current configuration
func (s *Store) Config() settings.Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SetCapitalText stores the capital typed into the currency field.
// Non-digits are dropped; the stored value is returned.
func (s *Store) SetCapitalText(raw string) int64 {
	return s.SetCapital(settings.ParseCapital(raw))
}

// SetCapital stores a numeric capital, clamping negatives to 0
func (s *Store) SetCapital(v int64) int64 {
	v = settings.SanitizeCapital(v)
	s.mutate(func() {
		s.config.Capital = v
	})
	return v
}

// SetWeight changes one criterion weight
func (s *Store) SetWeight(c settings.Criterion, value int) error {
	var err error
	s.mutate(func() {
		var w settings.Weights
		if w, err = s.config.Weights.With(c, value); err == nil {
			s.config.Weights = w
		}
	})
	return err
}

// ResetWeights restores all five weights to the preset in one transition
func (s *Store) ResetWeights() settings.Weights {
	w := settings.DefaultWeights()
	s.mutate(func() {
		s.config.Weights = w
	})
	return w
}

// ApplyWeights replaces all five weights and, when capital is non-nil, the
// capital in one transition. Nothing changes if any weight is invalid.
func (s *Store) ApplyWeights(w settings.Weights, capital *int64) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mutate(func() {
		s.config.Weights = w
		if capital != nil {
			s.config.Capital = settings.SanitizeCapital(*capital)
		}
	})
	return nil
}

// Advice classifies the current capital. Recomputed on every call.
func (s *Store) Advice() advisory.Advice {
	return advisory.Classify(s.Config().Capital)
}

// ─── Analysis ────────────────────────────────────────────────

// RunAnalysis sends the current configuration to the scoring service.
// At most one request is in flight: a call made while loading returns
// ErrAnalysisInFlight without contacting the service. The request is not tied to
// ctx cancellation; once dispatched it runs until the HTTP client settles it.
func (s *Store) RunAnalysis(ctx context.Context) (result *contracts.AnalysisResult, err error) {
	token, req, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		s.settle(token, result, err)
	}()

	s.logger.WithFields(map[string]interface{}{
		"request_id": token,
		"capital":    req.Capital,
		"weight_sum": req.WPER + req.WPBV + req.WROE + req.WRSI + req.WVolume,
	}).Info("Analysis started")

	result, err = s.analyzer.Analyze(context.WithoutCancel(ctx), req)
	if err == nil && result == nil {
		err = fmt.Errorf("%w: empty response", scoring.ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	return result, nil
}

// begin is the only place loading becomes true
func (s *Store) begin() (string, contracts.AnalysisRequest, error) {
	s.mu.Lock()
	if s.loading {
		inFlight := s.requestID
		s.mu.Unlock()
		s.logger.WithField("request_id", inFlight).Debug("Analysis already in flight, ignoring trigger")
		return "", contracts.AnalysisRequest{}, ErrAnalysisInFlight
	}

	s.loading = true
	s.requestID = uuid.NewString()
	token, req := s.requestID, s.config.Request()
	snap, listeners := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap, listeners)
	return token, req, nil
}

// settle installs a successful result or records the failure, and always clears loading
func (s *Store) settle(token string, result *contracts.AnalysisResult, err error) {
	s.mu.Lock()
	if s.requestID != token {
		s.mu.Unlock()
		return
	}

	if err == nil && result != nil {
		result.RequestID = token
		result.ReceivedAt = s.now()
		s.result = result
		s.viewMode = ViewPortfolio
		s.selected = nil
		s.notice = nil
	} else {
		if err == nil {
			err = ErrAnalysisFailed
		}
		s.notice = &Notice{Message: FailureMessage, Detail: err.Error(), At: s.now()}
	}

	s.loading = false
	s.requestID = ""
	snap, listeners := s.commitLocked()
	s.mu.Unlock()

	if err == nil && result != nil {
		s.logger.WithFields(map[string]interface{}{
			"request_id":  token,
			"candidates":  len(result.Candidates),
			"recommended": len(result.Recommended()),
		}).Info("Analysis result installed")
	} else {
		s.logger.WithError(err).WithField("request_id", token).Error("Analysis failed")
	}

	s.publish(snap, listeners)
}

// Loading reports whether a request is in flight
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Result returns the installed result, or nil before the first success.
// Callers must treat it as read-only.
func (s *Store) Result() *contracts.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Notice returns the last failure notice, if any
func (s *Store) Notice() (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice == nil {
		return Notice{}, false
	}
	return *s.notice, true
}

// DismissNotice clears the failure notice
func (s *Store) DismissNotice() {
	s.mutate(func() {
		s.notice = nil
	})
}

// ─── Presentation ────────────────────────────────────────────

// State returns what the result panel shows
func (s *Store) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() ViewState {
	switch {
	case s.loading:
		return StateLoading
	case s.result.IsEmpty():
		return StateEmpty
	case s.viewMode == ViewMarket:
		return StateMarket
	default:
		return StatePortfolio
	}
}

// ViewMode returns the selected view mode
func (s *Store) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

// SetViewMode switches between the portfolio and market views.
// Only possible once a non-empty result is installed.
func (s *Store) SetViewMode(mode ViewMode) error {
	if _, err := ParseViewMode(string(mode)); err != nil {
		return err
	}

	var err error
	s.mutate(func() {
		if s.result.IsEmpty() {
			err = ErrNoResults
			return
		}
		s.viewMode = mode
	})
	return err
}

// ToggleView flips between portfolio and market and returns the new mode
func (s *Store) ToggleView() (ViewMode, error) {
	var (
		mode ViewMode
		err  error
	)
	s.mutate(func() {
		if s.result.IsEmpty() {
			err = ErrNoResults
			return
		}
		if s.viewMode == ViewPortfolio {
			s.viewMode = ViewMarket
		} else {
			s.viewMode = ViewPortfolio
		}
		mode = s.viewMode
	})
	return mode, err
}

// Select opens the detail overlay for a candidate of the current result
func (s *Store) Select(id string) (*contracts.Candidate, error) {
	var (
		c   *contracts.Candidate
		err error
	)
	s.mutate(func() {
		switch {
		case s.loading:
			err = ErrAnalysisInFlight
		case s.result.IsEmpty():
			err = ErrNoResults
		default:
			var ok bool
			if c, ok = s.result.Find(id); !ok {
				err = fmt.Errorf("%w: %q", ErrCandidateNotFound, id)
				return
			}
			s.selected = c
		}
	})
	return c, err
}

// Selected returns the candidate under inspection, if the overlay is open
func (s *Store) Selected() (*contracts.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != nil
}

// CloseDetail closes the overlay; the underlying view is unchanged
func (s *Store) CloseDetail() {
	s.mutate(func() {
		s.selected = nil
	})
}

// ─── Listeners ───────────────────────────────────────────────

// Subscribe registers a listener and returns a function that removes it
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// mutate runs fn under the lock, then publishes one snapshot
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap, listeners := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap, listeners)
}

func (s *Store) commitLocked() (Snapshot, []Listener) {
	s.version++
	if len(s.listeners) == 0 {
		return Snapshot{}, nil
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return s.snapshotLocked(), listeners
}

func (s *Store) publish(snap Snapshot, listeners []Listener) {
	for _, l := range listeners {
		l(snap)
	}
}
