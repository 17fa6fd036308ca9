package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subgen/internal/audio"
	"subgen/internal/fileutil"
	"subgen/internal/history"
	"subgen/internal/logging"
	"subgen/internal/services"
	"subgen/internal/subtitles"
	"subgen/internal/transcription"
)

// LockFileName is created in the output directory while a batch runs.
const LockFileName = ".subgen.lock"

// ErrLocked reports that another batch holds the output directory lock.
var ErrLocked = errors.New("another subgen batch is writing to this output directory")

// Extractor prepares per-job audio artifacts. *audio.Extractor satisfies it.
type Extractor interface {
	Prepare(ctx context.Context, source, token string) (*audio.Artifact, error)
}

// Transcriber turns an artifact into segments. *transcription.Handle
// satisfies it.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string, opts transcription.Options) ([]transcription.Segment, error)
}

// Recorder persists job outcomes. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, rec history.Record) error
}

// Result is the outcome of one job.
type Result struct {
	Job      Job
	Status   history.Status
	Blocks   int
	Err      error
	Started  time.Time
	Duration time.Duration
}

// Summary aggregates a batch run.
type Summary struct {
	BatchID   string
	Results   []Result
	Succeeded int
	Failed    int
	Skipped   int
	Duration  time.Duration
}

// HasFailures reports whether any job failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

func (s *Summary) add(result Result) {
	s.Results = append(s.Results, result)
	switch result.Status {
	case history.StatusSucceeded:
		s.Succeeded++
	case history.StatusFailed:
		s.Failed++
	case history.StatusSkipped:
		s.Skipped++
	}
}

// Runner executes batches.
type Runner struct {
	opts      Options
	extractor Extractor
	engine    Transcriber
	recorder  Recorder
	logger    *slog.Logger
	batchID   string
	now       func() time.Time
}

// NewRunner constructs a runner. The engine is shared by every job.
func NewRunner(opts Options, extractor Extractor, engine Transcriber, logger *slog.Logger) *Runner {
	return &Runner{
		opts:      opts,
		extractor: extractor,
		engine:    engine,
		logger:    logging.NewComponentLogger(logger, "batch"),
		now:       time.Now,
	}
}

// WithRecorder enables history recording.
func (r *Runner) WithRecorder(recorder Recorder) {
	r.recorder = recorder
}

// Options returns the runner configuration.
func (r *Runner) Options() Options {
	return r.opts
}

// Lock acquires the output directory lock. The returned function releases it.
func (r *Runner) Lock() (func(), error) {
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrWriteFailed, "batch", "ensure output dir", "create output directory", err)
	}
	lockPath := filepath.Join(r.opts.OutputDir, LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, lockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release output lock", logging.String("lock", lockPath), logging.Error(err))
		}
	}, nil
}

// Run processes every discovered file. The returned error is non-nil only
// when the batch could not run at all, was cancelled, or stopped early under
// fail-fast; individual failures are reported in the summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	started := r.now()
	r.batchID = uuid.NewString()
	summary := Summary{BatchID: r.batchID}
	ctx = services.WithRequestID(ctx, r.batchID)
	logger := logging.WithContext(ctx, r.logger)

	release, err := r.Lock()
	if err != nil {
		return summary, err
	}
	defer release()

	jobs, err := r.Discover()
	if err != nil {
		return summary, err
	}
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("input_dir", r.opts.InputDir),
		logging.String("output_dir", r.opts.OutputDir),
		logging.Int("files", len(jobs)),
		logging.String("granularity", r.opts.Granularity.String()),
		logging.Bool("fail_fast", r.opts.FailFast),
	)
	if len(jobs) == 0 {
		logger.Info("no input files found", logging.String("extensions", strings.Join(r.opts.Extensions, ",")))
	}

	var runErr error
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		result := r.Process(ctx, job)
		summary.add(result)
		if result.Err != nil && (errors.Is(result.Err, context.Canceled) || errors.Is(result.Err, context.DeadlineExceeded)) {
			runErr = result.Err
			break
		}
		if result.Status == history.StatusFailed && r.opts.FailFast {
			runErr = fmt.Errorf("stopped after %s failed: %w", job.Name(), result.Err)
			break
		}
	}

	summary.Duration = r.now().Sub(started)
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration),
	)
	return summary, runErr
}

// Process runs a single job end to end. The audio artifact is released before
// Process returns, whatever the outcome.
func (r *Runner) Process(ctx context.Context, job Job) Result {
	result := Result{Job: job, Started: r.now()}
	ctx = services.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, r.logger).With(
		logging.String(logging.FieldFile, job.Name()),
		logging.String(logging.FieldProgress, fmt.Sprintf("%d/%d", job.Index, job.Total)),
	)

	if r.opts.SkipExisting && fileutil.Exists(job.Output) {
		result.Status = history.StatusSkipped
		logger.Info("job skipped",
			logging.String(logging.FieldEventType, "job_skipped"),
			logging.String("output", job.Output),
			logging.String("reason", "output exists"),
		)
		r.record(ctx, logger, result)
		return result
	}

	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("input", job.Input),
		logging.String("output", job.Output),
	)

	blocks, err := r.execute(ctx, logger, job)
	result.Duration = r.now().Sub(result.Started)
	result.Blocks = blocks
	if err != nil {
		result.Status = history.StatusFailed
		result.Err = err
		if ctx.Err() != nil {
			logger.Warn("job cancelled",
				logging.String(logging.FieldEventType, "job_cancelled"),
				logging.String(logging.FieldErrorHint, "rerun the batch to process remaining files"),
				logging.String(logging.FieldImpact, "output for this file was not written"),
			)
		} else {
			logging.ErrorWithContext(logger, "job failed", "job_failure",
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String(logging.FieldErrorHint, services.Hint(err)),
				logging.Duration("duration", result.Duration),
				logging.Error(err),
			)
		}
		r.record(ctx, logger, result)
		return result
	}

	result.Status = history.StatusSucceeded
	logger.Info("job finished",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.Int("blocks", blocks),
		logging.Duration("duration", result.Duration),
		logging.String("output", job.Output),
	)
	r.record(ctx, logger, result)
	return result
}

func (r *Runner) execute(ctx context.Context, logger *slog.Logger, job Job) (int, error) {
	if r.extractor == nil || r.engine == nil {
		return 0, services.Wrap(services.ErrConfiguration, "batch", "process job", "runner requires an extractor and a transcriber", nil)
	}

	extractCtx := services.WithStage(ctx, "extract")
	artifact, err := r.extractor.Prepare(extractCtx, job.Input, job.ID)
	if err != nil {
		return 0, err
	}
	defer func() {
		if relErr := artifact.Release(); relErr != nil {
			logging.WarnWithContext(logger, "failed to remove temporary audio", "artifact_cleanup",
				logging.String("artifact", artifact.Path()),
				logging.Error(relErr),
				logging.String(logging.FieldErrorHint, "remove the file from the temp directory manually"),
				logging.String(logging.FieldImpact, "temporary disk space is not reclaimed"),
			)
		}
	}()
	logger.Debug("audio extracted", logging.String("artifact", artifact.Path()))

	transcribeCtx := services.WithStage(ctx, "transcribe")
	segments, err := r.engine.Transcribe(transcribeCtx, artifact.Path(), transcription.Options{
		Language:  r.opts.Language,
		ModelSize: r.opts.ModelSize,
		Device:    r.opts.Device,
		Words:     r.opts.Granularity == subtitles.GranularityWord,
	})
	if err != nil {
		return 0, err
	}

	blocks := subtitles.Build(segments, r.opts.Granularity)
	content := subtitles.Render(blocks)
	if len(blocks) == 0 {
		logging.WarnWithContext(logger, "no speech detected", "empty_transcript",
			logging.Int("segments", len(segments)),
			logging.String(logging.FieldErrorHint, "check the input has an audible speech track"),
			logging.String(logging.FieldImpact, "an empty subtitle file is written"),
		)
	} else if issues := subtitles.Validate([]byte(content)); len(issues) > 0 {
		logging.WarnWithContext(logger, "subtitle validation reported issues", "subtitle_validation",
			logging.String("issues", strings.Join(issues, ",")),
			logging.String(logging.FieldErrorHint, "inspect the engine output timings"),
			logging.String(logging.FieldImpact, "subtitle file written as produced"),
		)
	}

	if first, last, ok := subtitles.Bounds([]byte(content)); ok {
		logger.Debug("subtitles rendered",
			logging.Int("blocks", len(blocks)),
			logging.String("span", subtitles.FormatTimestamp(first)+" --> "+subtitles.FormatTimestamp(last)),
		)
	}

	if err := fileutil.WriteFileAtomic(job.Output, []byte(content), 0o644); err != nil {
		return 0, services.Wrap(services.ErrWriteFailed, "write", "write subtitles", job.Output, err)
	}
	return len(blocks), nil
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, result Result) {
	if r.recorder == nil {
		return
	}
	rec := history.Record{
		ID:          result.Job.ID,
		BatchID:     r.batchID,
		InputPath:   result.Job.Input,
		OutputPath:  result.Job.Output,
		Granularity: r.opts.Granularity.String(),
		Status:      result.Status,
		Blocks:      result.Blocks,
		StartedAt:   result.Started,
		FinishedAt:  result.Started.Add(result.Duration),
	}
	if r.engine != nil {
		rec.Backend = r.engine.Name()
	}
	if result.Err != nil {
		rec.ErrorKind = services.Kind(result.Err)
		rec.ErrorMessage = result.Err.Error()
	}
	if err := r.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		logging.WarnWithContext(logger, "failed to record job history", "history_write",
			logging.Error(err),
			logging.String(logging.FieldImpact, "job missing from subgen history"),
		)
	}
}
