package training

import (
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/soocke/training-overlay/domain/vision"
)

// matchJob is one template of one cycle. Results land in the cycle's own
// slices at idx, so concurrent cycles can never see each other's output.
type matchJob struct {
	frame     *vision.Frame
	tmpl      *vision.Template
	threshold float64
	order     vision.SuppressionOrder
	idx       int
	out       [][]vision.Match
	errs      []error
	wg        *sync.WaitGroup
}

// matchPool is a fixed set of matching goroutines fed through a job queue.
type matchPool struct {
	jobs    chan matchJob
	workers int
	logger  *slog.Logger
	wg      sync.WaitGroup
	once    sync.Once
}

// poolSize returns min(templates, limit) where limit defaults to NumCPU.
func poolSize(templates, limit int) int {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return max(1, min(templates, limit))
}

func newMatchPool(workers int, logger *slog.Logger) *matchPool {
	p := &matchPool{jobs: make(chan matchJob, workers*2), workers: workers, logger: logger}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *matchPool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.run(j)
	}
}

func (p *matchPool) run(j matchJob) {
	defer j.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			j.errs[j.idx] = fmt.Errorf("match %s panicked: %v", j.tmpl.Name, r)
			if p.logger != nil {
				p.logger.Error("match worker panic", "template", j.tmpl.Name, "error", r, "stack", string(debug.Stack()))
			}
		}
	}()
	j.out[j.idx] = vision.MatchAll(j.frame, j.tmpl, j.threshold, j.order)
}

// matchAll matches every template against frame and blocks until all are
// done. The result is indexed like templates.
func (p *matchPool) matchAll(frame *vision.Frame, templates []*vision.Template, threshold float64, order vision.SuppressionOrder) ([][]vision.Match, error) {
	out := make([][]vision.Match, len(templates))
	errs := make([]error, len(templates))
	var wg sync.WaitGroup
	wg.Add(len(templates))
	for i, t := range templates {
		p.jobs <- matchJob{frame: frame, tmpl: t, threshold: threshold, order: order, idx: i, out: out, errs: errs, wg: &wg}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// close stops the workers after queued jobs drain.
func (p *matchPool) close() {
	p.once.Do(func() {
		close(p.jobs)
		p.wg.Wait()
	})
}
