package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oumizumi/kairo-api/internal/models"
)

type termWarmer interface {
	Get(ctx context.Context, term models.Term) Catalog
}

// PrewarmConfig tunes the background warm-up workers.
type PrewarmConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

type prewarmJob struct {
	term    models.Term
	attempt int
}

// Prewarmer loads term catalogs in the background so the first generation
// request hits a warm cache instead of paying the parse cost. An empty
// catalog is retried a few times; scrape files are sometimes mid-write when
// the server comes up.
type Prewarmer struct {
	cache      termWarmer
	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	jobs    chan prewarmJob
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

func NewPrewarmer(cache termWarmer, cfg PrewarmConfig) *Prewarmer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Prewarmer{
		cache:      cache,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		jobs:       make(chan prewarmJob, cfg.Workers*4),
	}
}

// Start begins worker consumption. Safe to call once.
func (p *Prewarmer) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	p.started = true
	p.logger.Sugar().Infow("catalog prewarm started", "workers", p.workers)
}

// Stop cancels workers and waits for them to exit.
func (p *Prewarmer) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.mu.Unlock()
	p.wg.Wait()
}

// Warm enqueues one term. A no-op when the prewarmer is stopped or the
// queue is full; warm-up is best effort.
func (p *Prewarmer) Warm(term models.Term) {
	p.mu.Lock()
	ctx := p.ctx
	started := p.started
	p.mu.Unlock()

	if !started {
		return
	}
	select {
	case <-ctx.Done():
	case p.jobs <- prewarmJob{term: term}:
	default:
		p.logger.Sugar().Warnw("prewarm queue full, skipping", "term", term)
	}
}

// WarmAll enqueues every known term.
func (p *Prewarmer) WarmAll() {
	for _, term := range models.AllTerms() {
		p.Warm(term)
	}
}

func (p *Prewarmer) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.jobs:
			p.run(job)
		}
	}
}

func (p *Prewarmer) run(job prewarmJob) {
	loaded := p.cache.Get(p.ctx, job.term)
	if len(loaded) > 0 {
		p.logger.Sugar().Infow("catalog warmed", "term", job.term, "courses", len(loaded))
		return
	}

	job.attempt++
	if job.attempt > p.maxRetries {
		p.logger.Sugar().Warnw("catalog prewarm gave up", "term", job.term, "attempts", job.attempt)
		return
	}
	p.logger.Sugar().Infow("catalog empty, retrying prewarm", "term", job.term, "attempt", job.attempt)

	go func(j prewarmJob) {
		timer := time.NewTimer(p.retryDelay)
		defer timer.Stop()
		select {
		case <-p.ctx.Done():
		case <-timer.C:
			select {
			case <-p.ctx.Done():
			case p.jobs <- j:
			}
		}
	}(job)
}
