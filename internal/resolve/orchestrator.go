package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lyricsync/internal/logging"
	"lyricsync/internal/ports"
	"lyricsync/internal/segment"
	"lyricsync/internal/services"
)

// Error kinds recorded on provider attempts. These are the caller-visible
// vocabulary for why a strategy failed.
const (
	KindTimeout           = "TIMEOUT"
	KindTranscription     = "TRANSCRIPTION_FAILURE"
	KindNoMatch           = "NO_MATCH"
	KindAlignment         = "ALIGNMENT_FAILURE"
	KindBoundary          = "BOUNDARY_FAILURE"
	KindLowConfidence     = "LOW_CONFIDENCE"
	KindCorpusUnavailable = "CORPUS_UNAVAILABLE"
	KindValidation        = "VALIDATION"
)

// state is one node of the fallback state machine.
type state int

const (
	stateInit state = iota
	stateSelectStrategy
	stateTranscribe
	stateMatch
	stateAlign
	stateBoundary
	stateScore
	stateAccept
	stateRetry
	stateExhausted
)

func (s state) String() string {
	switch s {
	case stateInit:
		return "INIT"
	case stateSelectStrategy:
		return "SELECT_STRATEGY"
	case stateTranscribe:
		return "RUN_TRANSCRIPTION"
	case stateMatch:
		return "RUN_MATCH"
	case stateAlign:
		return "RUN_ALIGNMENT"
	case stateBoundary:
		return "RUN_BOUNDARY"
	case stateScore:
		return "RUN_SCORE"
	case stateAccept:
		return "ACCEPT"
	case stateRetry:
		return "RETRY"
	case stateExhausted:
		return "EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// Options configures a Resolver.
type Options struct {
	Policy       Policy
	Strategies   []Strategy
	Transcribers []ports.Transcriber
	Aligners     []ports.Aligner
	Corpus       ports.LyricsCorpus
	// Cache is optional; nil disables idempotency caching.
	Cache  ports.Cache
	Logger *slog.Logger

	// CallTimeout bounds each external provider call.
	CallTimeout time.Duration
	// OverallDeadline bounds one whole resolution across all strategies.
	OverallDeadline time.Duration
	// PaceDelay is slept before every external call to respect provider
	// rate limits.
	PaceDelay time.Duration
}

// Resolver drives clip resolution. It holds no per-request mutable state, so
// concurrent resolutions need no locking.
type Resolver struct {
	policy          Policy
	strategies      []Strategy
	transcribers    map[string]ports.Transcriber
	aligners        map[string]ports.Aligner
	corpus          ports.LyricsCorpus
	cache           ports.Cache
	logger          *slog.Logger
	callTimeout     time.Duration
	overallDeadline time.Duration
	paceDelay       time.Duration
	now             func() time.Time
}

// New validates the options and constructs a Resolver.
func New(opts Options) (*Resolver, error) {
	if opts.Corpus == nil {
		return nil, fmt.Errorf("resolve: corpus port is required")
	}
	if len(opts.Strategies) == 0 {
		return nil, fmt.Errorf("resolve: at least one strategy is required")
	}

	transcribers := make(map[string]ports.Transcriber, len(opts.Transcribers))
	for _, t := range opts.Transcribers {
		transcribers[t.Name()] = t
	}
	aligners := make(map[string]ports.Aligner, len(opts.Aligners))
	for _, a := range opts.Aligners {
		aligners[a.Name()] = a
	}
	for _, strat := range opts.Strategies {
		if err := strat.validate(); err != nil {
			return nil, fmt.Errorf("resolve: %w", err)
		}
		if _, ok := transcribers[strat.Transcriber]; !ok {
			return nil, fmt.Errorf("resolve: strategy %s references unknown transcriber %q", strat.Name, strat.Transcriber)
		}
		if _, ok := aligners[strat.Aligner]; !ok {
			return nil, fmt.Errorf("resolve: strategy %s references unknown aligner %q", strat.Name, strat.Aligner)
		}
	}

	callTimeout := opts.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}
	overallDeadline := opts.OverallDeadline
	if overallDeadline <= 0 {
		overallDeadline = 30 * time.Second
	}

	return &Resolver{
		policy:          opts.Policy.normalized(),
		strategies:      append([]Strategy(nil), opts.Strategies...),
		transcribers:    transcribers,
		aligners:        aligners,
		corpus:          opts.Corpus,
		cache:           opts.Cache,
		logger:          logging.NewComponentLogger(opts.Logger, "resolve"),
		callTimeout:     callTimeout,
		overallDeadline: overallDeadline,
		paceDelay:       opts.PaceDelay,
		now:             time.Now,
	}, nil
}

// WithClock overrides the timestamp source for attempt records. Tests use a
// fixed clock so results are byte-identical across runs.
func (r *Resolver) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Request describes one clip to resolve against one song.
type Request struct {
	SongID          string
	ClipAudio       []byte
	ClipDurationSec float64
	// SongDurationSec is optional; when present it anchors boundary
	// interpolation for corpora without timestamps.
	SongDurationSec float64
	LanguageHint    string
}

func (req Request) validate() error {
	if req.SongID == "" {
		return services.Wrap(services.ErrValidation, "core", "validate", "song id is empty", nil)
	}
	if len(req.ClipAudio) == 0 {
		return services.Wrap(services.ErrValidation, "core", "validate", "clip audio is empty", nil)
	}
	if req.ClipDurationSec <= 0 {
		return services.Wrap(services.ErrValidation, "core", "validate", "clip duration must be positive", nil)
	}
	return nil
}

// run holds all mutable state for one resolution request. It lives on the
// stack of Resolve, so concurrent resolutions never share it.
type run struct {
	req    Request
	corpus []ports.LyricLine

	remaining []Strategy
	current   Strategy
	startedAt time.Time

	transcripts map[string]ports.ClipTranscript
	transcript  ports.ClipTranscript
	window      MatchWindow
	alignment   ports.AlignmentResult
	boundary    resolvedBoundary
	confidence  float64

	failProvider string
	failKind     string

	attempts []segment.ProviderAttempt
}

func (rn *run) fail(provider, kind string) {
	rn.failProvider = provider
	rn.failKind = kind
}

// Resolve determines which portion of the song the clip covers. It never
// returns an error: every failure is recorded in the provider chain and the
// terminal outcome is either RESOLVED or UNRESOLVED.
func (r *Resolver) Resolve(ctx context.Context, req Request) segment.SegmentResolution {
	logger := r.logger.With(
		logging.String(logging.FieldRequestID, uuid.NewString()),
		logging.String(logging.FieldSongID, req.SongID),
	)

	if err := req.validate(); err != nil {
		logger.Warn("resolution request rejected", logging.Error(err))
		return buildUnresolved(req, []segment.ProviderAttempt{{
			Provider:  "core",
			Strategy:  "validate",
			StartedAt: r.now().UTC(),
			Succeeded: false,
			ErrorKind: KindValidation,
		}})
	}

	key := CacheKey(req.ClipAudio, req.SongID)
	if r.cache != nil {
		if cached, ok, err := r.cache.Get(ctx, key); err != nil {
			logger.Warn("resolution cache read failed", logging.Error(err))
		} else if ok {
			logger.Info("resolution cache hit",
				logging.String(logging.FieldDecisionType, "resolution_cache"),
				logging.String("decision_result", "hit"),
				logging.String("cache_key", key),
			)
			return cached
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.overallDeadline)
	defer cancel()

	corpus, err := r.corpus.Lines(ctx, req.SongID)
	if err != nil || len(corpus) == 0 {
		if err == nil {
			err = services.Wrap(services.ErrNotFound, "corpus", "lines", "song has no lyric lines", nil)
		}
		logger.Warn("lyrics corpus unavailable", logging.Error(err))
		return buildUnresolved(req, []segment.ProviderAttempt{{
			Provider:  "corpus",
			Strategy:  "corpus_fetch",
			StartedAt: r.now().UTC(),
			Succeeded: false,
			ErrorKind: KindCorpusUnavailable,
		}})
	}

	rn := &run{
		req:         req,
		corpus:      corpus,
		remaining:   append([]Strategy(nil), r.strategies...),
		transcripts: make(map[string]ports.ClipTranscript, len(r.strategies)),
	}

	return r.runMachine(ctx, logger, key, rn)
}

func (r *Resolver) runMachine(ctx context.Context, logger *slog.Logger, cacheKey string, rn *run) segment.SegmentResolution {
	st := stateInit
	for {
		switch st {
		case stateInit:
			st = stateSelectStrategy

		case stateSelectStrategy:
			if ctx.Err() != nil {
				logger.Warn("resolution deadline exceeded, aborting remaining strategies",
					logging.Int("strategies_remaining", len(rn.remaining)),
				)
				st = stateExhausted
				break
			}
			if len(rn.remaining) == 0 {
				st = stateExhausted
				break
			}
			rn.current = rn.remaining[0]
			rn.remaining = rn.remaining[1:]
			rn.startedAt = r.now().UTC()
			rn.failProvider = ""
			rn.failKind = ""
			logger.Debug("strategy selected",
				logging.String(logging.FieldStrategy, rn.current.Name),
				logging.String("transcriber", rn.current.Transcriber),
				logging.String("aligner", rn.current.Aligner),
			)
			st = stateTranscribe

		case stateTranscribe:
			transcript, err := r.transcribeClip(ctx, rn)
			if err != nil {
				logger.Warn("transcription failed",
					logging.String(logging.FieldStrategy, rn.current.Name),
					logging.Error(err),
				)
				rn.fail(rn.current.Transcriber, stageKind(err, KindTranscription))
				st = stateRetry
				break
			}
			rn.transcript = transcript
			st = stateMatch

		case stateMatch:
			window, ok := findWindow(rn.transcript, rn.corpus, rn.req.ClipDurationSec, r.policy)
			if !ok {
				logger.Info("no corpus window above candidate floor",
					logging.String(logging.FieldStrategy, rn.current.Name),
					logging.Float64("candidate_floor", r.policy.CandidateFloor),
				)
				rn.fail(rn.current.Transcriber, KindNoMatch)
				st = stateRetry
				break
			}
			rn.window = window
			logger.Debug("candidate window found",
				logging.Int("start_line", window.StartLine),
				logging.Int("end_line", window.EndLine),
				logging.Float64("similarity", window.Similarity),
			)
			st = stateAlign

		case stateAlign:
			alignment, err := r.alignClip(ctx, rn)
			if err != nil {
				logger.Warn("forced alignment failed",
					logging.String(logging.FieldStrategy, rn.current.Name),
					logging.Error(err),
				)
				rn.fail(rn.current.Aligner, stageKind(err, KindAlignment))
				st = stateRetry
				break
			}
			rn.alignment = alignment
			st = stateBoundary

		case stateBoundary:
			boundary, err := resolveBoundary(rn.window, rn.alignment, rn.req.ClipDurationSec, rn.req.SongDurationSec, rn.corpus)
			if err != nil {
				logger.Warn("boundary resolution failed",
					logging.String(logging.FieldStrategy, rn.current.Name),
					logging.Error(err),
				)
				rn.fail(rn.current.Aligner, KindBoundary)
				st = stateRetry
				break
			}
			rn.boundary = boundary
			st = stateScore

		case stateScore:
			durationActual := actualWindowDuration(rn.window, rn.alignment)
			rn.confidence = scoreConfidence(rn.window, rn.alignment, durationActual, rn.req.ClipDurationSec, r.policy)
			accepted := rn.confidence >= r.policy.AcceptanceThreshold
			logger.Info("confidence scored",
				logging.String(logging.FieldDecisionType, "acceptance"),
				logging.String("decision_result", acceptLabel(accepted)),
				logging.String(logging.FieldStrategy, rn.current.Name),
				logging.Float64("confidence", rn.confidence),
				logging.Float64("threshold", r.policy.AcceptanceThreshold),
			)
			if accepted {
				st = stateAccept
				break
			}
			rn.fail(rn.current.Transcriber, KindLowConfidence)
			st = stateRetry

		case stateRetry:
			rn.attempts = append(rn.attempts, segment.ProviderAttempt{
				Provider:  rn.failProvider,
				Strategy:  rn.current.Name,
				StartedAt: rn.startedAt,
				Succeeded: false,
				ErrorKind: rn.failKind,
			})
			st = stateSelectStrategy

		case stateAccept:
			rn.attempts = append(rn.attempts, segment.ProviderAttempt{
				Provider:  rn.current.Transcriber,
				Strategy:  rn.current.Name,
				StartedAt: rn.startedAt,
				Succeeded: true,
			})
			res := buildResolution(rn.req, rn.boundary, rn.confidence, rn.attempts)
			if r.cache != nil {
				if err := r.cache.Put(ctx, cacheKey, res); err != nil {
					logger.Warn("resolution cache write failed", logging.Error(err))
				}
			}
			logger.Info("segment resolved",
				logging.Float64("resolved_start_sec", res.ResolvedStartSec),
				logging.Float64("resolved_end_sec", res.ResolvedEndSec),
				logging.Float64("confidence", res.Confidence),
				logging.Int("attempts", len(res.ProviderChain)),
			)
			return res

		case stateExhausted:
			logger.Warn("all strategies exhausted",
				logging.Int("attempts", len(rn.attempts)),
			)
			return buildUnresolved(rn.req, rn.attempts)
		}
	}
}

// transcribeClip returns the memoized transcript for the current strategy's
// (provider, language) pair, invoking the port on first use.
func (r *Resolver) transcribeClip(ctx context.Context, rn *run) (ports.ClipTranscript, error) {
	key := rn.current.transcriptKey()
	if cached, ok := rn.transcripts[key]; ok {
		return cached, nil
	}

	transcriber := r.transcribers[rn.current.Transcriber]
	language := rn.current.Language
	if language == "" {
		language = rn.req.LanguageHint
	}

	if err := r.pace(ctx); err != nil {
		return ports.ClipTranscript{}, err
	}
	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	transcript, err := transcriber.Transcribe(callCtx, rn.req.ClipAudio, language)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			err = services.Wrap(services.ErrTimeout, transcriber.Name(), "transcribe", "call exceeded timeout", err)
		}
		return ports.ClipTranscript{}, err
	}
	if len(transcript.Words) == 0 && transcript.RawText == "" {
		return ports.ClipTranscript{}, services.Wrap(services.ErrExternalTool, transcriber.Name(), "transcribe", "provider returned empty transcript", nil)
	}
	rn.transcripts[key] = transcript
	return transcript, nil
}

func (r *Resolver) alignClip(ctx context.Context, rn *run) (ports.AlignmentResult, error) {
	aligner := r.aligners[rn.current.Aligner]

	if err := r.pace(ctx); err != nil {
		return ports.AlignmentResult{}, err
	}
	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	alignment, err := refineAlignment(callCtx, aligner, rn.req.ClipAudio, rn.window)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			err = services.Wrap(services.ErrTimeout, aligner.Name(), "align", "call exceeded timeout", err)
		}
		return ports.AlignmentResult{}, err
	}
	return alignment, nil
}

// pace enforces the fixed inter-call delay that keeps external providers
// from throttling us.
func (r *Resolver) pace(ctx context.Context) error {
	if r.paceDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(r.paceDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// stageKind maps a provider error to the attempt error kind: timeouts and
// cancellations keep their transport-level kind, everything else classifies
// by pipeline stage.
func stageKind(err error, fallback string) string {
	switch services.Kind(err) {
	case KindTimeout, "CANCELED":
		return KindTimeout
	default:
		return fallback
	}
}

func acceptLabel(accepted bool) string {
	if accepted {
		return "accepted"
	}
	return "rejected"
}
