// Package pipeline runs one print job through dispatch, conversion and
// printing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spherical/thermal-print/internal/dispatch"
	"github.com/spherical/thermal-print/internal/domain"
	"github.com/spherical/thermal-print/internal/observability"
	"github.com/spherical/thermal-print/internal/raster"
	"github.com/spherical/thermal-print/internal/transport"
	"github.com/spherical/thermal-print/internal/workspace"
)

// Controller drives the print job state machine.
type Controller struct {
	dispatcher *dispatch.Dispatcher
	transport  *transport.Transport
	workRoot   string
	logger     *observability.Logger
}

// NewController creates a controller. Job workspaces are created under
// workRoot, or the OS temp dir when it is empty.
func NewController(dispatcher *dispatch.Dispatcher, tr *transport.Transport, workRoot string, logger *observability.Logger) *Controller {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Controller{
		dispatcher: dispatcher,
		transport:  tr,
		workRoot:   workRoot,
		logger:     logger.WithOperation("pipeline"),
	}
}

// Run prints the document at path. The returned job is always non-nil and
// ends in Done, Failed or Cancelled; the error is nil only for Done.
func (c *Controller) Run(ctx context.Context, path string, eventCh chan<- domain.StreamEvent) (*domain.PrintJob, error) {
	return c.run(ctx, path, eventCh, func(ctx context.Context, job *domain.PrintJob, rasterPath string) error {
		return c.transport.Print(ctx, rasterPath, func(done, total int) {
			c.emitEvent(eventCh, domain.StreamEvent{
				Type:      domain.EventProgress,
				JobID:     job.ID,
				State:     job.State,
				Payload:   domain.Progress{Done: done, Total: total},
				Timestamp: time.Now(),
			})
		})
	})
}

// Render converts the document at path and writes the bitmap that would be
// printed to out (.png or .bmp) without touching the printer.
func (c *Controller) Render(ctx context.Context, path, out string, eventCh chan<- domain.StreamEvent) (*domain.PrintJob, error) {
	return c.run(ctx, path, eventCh, func(ctx context.Context, job *domain.PrintJob, rasterPath string) error {
		ext := strings.ToLower(filepath.Ext(out))
		if ext != ".png" && ext != ".bmp" {
			return domain.ValidationError(fmt.Sprintf("preview must be .png or .bmp, got %q", out), nil)
		}
		bitmap, err := c.transport.Prepare(rasterPath)
		if err != nil {
			return err
		}
		if err := raster.Save(out, bitmap); err != nil {
			return domain.IOError(fmt.Sprintf("failed to write preview %s", out), err)
		}
		c.logger.WithContext(ctx).Info().
			Str("output", out).
			Int("width", bitmap.Width).
			Int("height", bitmap.Height).
			Msg("Wrote preview")
		return nil
	})
}

type outputFunc func(ctx context.Context, job *domain.PrintJob, rasterPath string) error

func (c *Controller) run(ctx context.Context, path string, eventCh chan<- domain.StreamEvent, output outputFunc) (*domain.PrintJob, error) {
	job := &domain.PrintJob{
		ID:        uuid.New().String(),
		Target:    c.transport.Target(),
		StartedAt: time.Now(),
	}
	ctx = observability.ContextWithJobID(ctx, job.ID)
	logger := c.logger.WithJob(job.ID)

	c.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventStart,
		JobID:     job.ID,
		Payload:   path,
		Timestamp: job.StartedAt,
	})

	c.transition(job, domain.StateDispatching, eventCh)

	doc, err := domain.NewSourceDocument(path)
	if err != nil {
		return c.fail(job, err, eventCh)
	}
	job.Document = doc

	strategy, err := c.dispatcher.Select(doc)
	if err != nil {
		return c.fail(job, err, eventCh)
	}

	ws, err := workspace.New(c.workRoot)
	if err != nil {
		return c.fail(job, domain.IOError("failed to create job workspace", err), eventCh)
	}
	defer func() {
		if err := ws.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove job workspace")
		}
	}()

	logger = logger.With().
		Str("file", doc.Path).
		Str("kind", string(doc.Kind)).
		Logger()
	logger.Info().Str("printer", job.Target.String()).Msg("Starting print job")

	if err := ctx.Err(); err != nil {
		return c.fail(job, err, eventCh)
	}
	c.transition(job, domain.StateConverting, eventCh)

	start := time.Now()
	rasterPath, err := strategy.Convert(ctx, doc, ws)
	if err != nil {
		return c.fail(job, err, eventCh)
	}
	logger.Debug().
		Str("raster", rasterPath).
		Dur("duration", time.Since(start)).
		Msg("Document converted")

	if err := ctx.Err(); err != nil {
		return c.fail(job, err, eventCh)
	}
	c.transition(job, domain.StatePrinting, eventCh)

	if err := output(ctx, job, rasterPath); err != nil {
		return c.fail(job, err, eventCh)
	}

	c.transition(job, domain.StateDone, eventCh)
	job.FinishedAt = time.Now()

	c.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventComplete,
		JobID:     job.ID,
		State:     job.State,
		Payload:   fmt.Sprintf("Job complete in %v", job.FinishedAt.Sub(job.StartedAt).Round(time.Millisecond)),
		Timestamp: job.FinishedAt,
	})
	logger.Info().Dur("duration", job.FinishedAt.Sub(job.StartedAt)).Msg("Print job complete")

	return job, nil
}

// transition moves job to next. Illegal transitions are programming errors.
func (c *Controller) transition(job *domain.PrintJob, next domain.JobState, eventCh chan<- domain.StreamEvent) {
	if !job.State.CanTransition(next) {
		panic(fmt.Sprintf("pipeline: illegal transition %q -> %q", job.State, next))
	}
	job.State = next
	job.History = append(job.History, next)

	c.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventStateChange,
		JobID:     job.ID,
		State:     next,
		Timestamp: time.Now(),
	})
}

// fail classifies err for the current stage and moves job to its terminal
// state.
func (c *Controller) fail(job *domain.PrintJob, err error, eventCh chan<- domain.StreamEvent) (*domain.PrintJob, error) {
	err = classify(job.State, err)
	terminal := domain.StateFailed
	if domain.IsType(err, domain.ErrorTypeCancelled) {
		terminal = domain.StateCancelled
	}

	job.Err = err
	c.transition(job, terminal, eventCh)
	job.FinishedAt = time.Now()

	c.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventError,
		JobID:     job.ID,
		State:     terminal,
		Payload:   err.Error(),
		Timestamp: job.FinishedAt,
	})

	logger := c.logger.WithJob(job.ID)
	if terminal == domain.StateCancelled {
		logger.Warn().Msg("Print job cancelled")
	} else {
		logger.Error().Err(err).Str("error_type", string(domain.TypeOf(err))).Msg("Print job failed")
	}

	return job, err
}

// classify turns any stage error into a DomainError. Cancellation wins over
// the stage's own failure type.
func classify(stage domain.JobState, err error) error {
	if domain.IsCancellation(err) {
		if domain.IsType(err, domain.ErrorTypeCancelled) {
			return err
		}
		return domain.CancelledError(err)
	}

	var de *domain.DomainError
	if errors.As(err, &de) {
		return err
	}

	switch stage {
	case domain.StateConverting:
		return domain.ConversionError("conversion failed", err)
	case domain.StatePrinting:
		return domain.PrintError("printing failed", err)
	default:
		return domain.ValidationError("invalid input", err)
	}
}

// emitEvent safely emits an event to the channel
func (c *Controller) emitEvent(eventCh chan<- domain.StreamEvent, event domain.StreamEvent) {
	if eventCh != nil {
		select {
		case eventCh <- event:
		default:
			c.logger.Debug().Str("event", string(event.Type)).Msg("Event channel full, dropping event")
		}
	}
}
