package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
)

// HashPool runs bcrypt hashing on a bounded set of workers so the
// deliberately expensive work does not pin request-serving goroutines when
// registration volume spikes.
type HashPool struct {
	jobs   chan hashJob
	done   chan struct{}
	cost   int
	logger *zap.Logger
}

type hashJob struct {
	plaintext string
	result    chan hashResult
}

type hashResult struct {
	digest string
	err    error
}

// ErrPoolClosed is returned for submissions after Close.
var ErrPoolClosed = errors.New("hash pool closed")

// NewHashPool starts size workers hashing at the given bcrypt cost.
func NewHashPool(size, cost int, logger *zap.Logger) *HashPool {
	if size <= 0 {
		size = 1
	}
	p := &HashPool{
		jobs:   make(chan hashJob),
		done:   make(chan struct{}),
		cost:   cost,
		logger: logger,
	}
	for i := 0; i < size; i++ {
		go p.run()
	}
	return p
}

func (p *HashPool) run() {
	for {
		select {
		case <-p.done:
			return
		case job := <-p.jobs:
			digest, err := auth.HashPassword(job.plaintext, p.cost)
			if err != nil {
				p.logger.Error("password hashing failed", zap.Error(err))
			}
			job.result <- hashResult{digest: digest, err: err}
		}
	}
}

// Hash submits a plaintext and blocks until a worker produces the digest or
// the context is cancelled.
func (p *HashPool) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case <-p.done:
		return "", ErrPoolClosed
	default:
	}

	job := hashJob{plaintext: plaintext, result: make(chan hashResult, 1)}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.done:
		return "", ErrPoolClosed
	case p.jobs <- job:
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-job.result:
		return res.digest, res.err
	}
}

// Close stops the workers. In-flight jobs complete; queued submissions fail.
func (p *HashPool) Close() {
	close(p.done)
}
