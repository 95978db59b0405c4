package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/metrics"
	"github.com/johnquangdev/voice-receptionist/pkg/callcontext"
)

// ErrRecorderClosed is returned by Close when in-flight writes did not finish
var ErrRecorderClosed = errors.New("analytics recorder closed with writes in flight")

// Store appends analytics records
type Store interface {
	Append(ctx context.Context, rec *entities.AnalyticsRecord) error
}

// Config bounds each write
type Config struct {
	// Timeout bounds one write including its retries
	Timeout time.Duration
	// InitialInterval is the first retry delay
	InitialInterval time.Duration
	// MaxElapsed stops retrying after this long
	MaxElapsed time.Duration
}

// Recorder persists analytics records without blocking the caller
type Recorder struct {
	store   Store
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewRecorder creates a recorder. store may be nil, which disables writes.
func NewRecorder(store Store, cfg Config, logger *zap.Logger, m *metrics.Metrics) *Recorder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxElapsed <= 0 || cfg.MaxElapsed > cfg.Timeout {
		cfg.MaxElapsed = cfg.Timeout
	}
	return &Recorder{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Record writes rec in the background. ctx only contributes call metadata;
// its cancellation does not abort the write. Failures are logged, never returned.
func (r *Recorder) Record(ctx context.Context, rec *entities.AnalyticsRecord) {
	if rec == nil || r.store == nil {
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		if r.logger != nil {
			r.logger.Warn("⚠️ Analytics recorder closed, dropping record", zap.String("call_id", rec.CallID))
		}
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil && r.logger != nil {
				r.logger.Error("❌ Panic while writing analytics", zap.Any("panic", p))
			}
		}()
		r.write(ctx, rec)
	}()
}

func (r *Recorder) write(parent context.Context, rec *entities.AnalyticsRecord) {
	ctx, cancel := callcontext.Detach(parent, r.cfg.Timeout)
	defer cancel()

	rec.Timestamp = r.now().UTC()

	attempts := 0
	writeFn := func() error {
		attempts++
		err := r.store.Append(ctx, rec)
		if err != nil && !callcontext.IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	// Retry logic with exponential backoff
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.cfg.InitialInterval
	bo.MaxElapsedTime = r.cfg.MaxElapsed
	bo.MaxInterval = r.cfg.MaxElapsed / 2

	if err := backoff.Retry(writeFn, backoff.WithContext(bo, ctx)); err != nil {
		r.metrics.RecordAnalyticsWrite(false)
		if r.logger != nil {
			md := callcontext.GetCallMetadata(ctx)
			r.logger.Error("❌ Failed to persist analytics record",
				zap.String("call_id", rec.CallID),
				zap.String("request_id", md.RequestID),
				zap.String("record_id", rec.ID.String()),
				zap.Int("attempts", attempts),
				zap.Error(err),
			)
		}
		return
	}

	r.metrics.RecordAnalyticsWrite(true)
	if r.logger != nil {
		fields := []zap.Field{
			zap.String("call_id", rec.CallID),
			zap.Bool("appointment_booked", rec.AppointmentBooked),
			zap.Int("attempts", attempts),
		}
		if start, ok := callcontext.GetStartTime(ctx); ok {
			fields = append(fields, zap.Duration("since_turn_start", r.now().Sub(start)))
		}
		r.logger.Info("📊 Analytics record persisted", fields...)
	}
}

// Close stops accepting records and waits for in-flight writes until ctx is done
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrRecorderClosed, ctx.Err())
	}
}
