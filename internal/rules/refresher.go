package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
)

type refresher interface {
	Refresh(ctx context.Context) (*model.RulesEnvelope, error)
}

// Refresher периодически обновляет правила через gocron.
type Refresher struct {
	scheduler gocron.Scheduler
	target    refresher
	timeout   time.Duration
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRefresher создает планировщик. Первое обновление выполняется сразу после Start.
func NewRefresher(target refresher, interval time.Duration, log *zap.Logger) (*Refresher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Refresher{
		scheduler: scheduler,
		target:    target,
		timeout:   interval,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.refresh),
		gocron.WithName("dynamic-rules-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("scheduling rules refresh: %w", err)
	}

	return r, nil
}

func (r *Refresher) Start() {
	r.scheduler.Start()
	r.log.Info("rules refresher started")
}

// Stop прерывает текущее обновление и останавливает планировщик.
func (r *Refresher) Stop() error {
	r.cancel()
	if err := r.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("stopping scheduler: %w", err)
	}
	r.log.Info("rules refresher stopped")
	return nil
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	if _, err := r.target.Refresh(ctx); err != nil {
		r.log.Error("scheduled rules refresh failed", zap.Error(err))
	}
}
