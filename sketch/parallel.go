package sketch

import (
	"sync"

	"github.com/pthm-cable/cabana/noise"
	"github.com/pthm-cable/cabana/raster"
)

// parallelThreshold is the minimum row count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 16

// rowChunk is a band of rows for a worker to evaluate.
type rowChunk struct {
	field  *noise.Field
	dst    *raster.Buffer
	frame  int64
	y0, y1 int
}

// parallelState holds the persistent row-evaluation worker pool.
type parallelState struct {
	numWorkers int

	// Worker pool channels
	workChan chan rowChunk  // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(numWorkers int) *parallelState {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &parallelState{numWorkers: numWorkers}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan rowChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.field.EvaluateRows(chunk.frame, chunk.dst, chunk.y0, chunk.y1)
			p.doneChan <- struct{}{}
		}
	}
}

// evaluate fills dst with field at frame, splitting rows across workers.
// It returns once every row is written. dst must match the field size.
func (p *parallelState) evaluate(field *noise.Field, frame int64, dst *raster.Buffer) {
	n := field.Height()
	if n < parallelThreshold || p.numWorkers < 2 {
		field.EvaluateRows(frame, dst, 0, n)
		return
	}

	// Ensure workers are running
	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- rowChunk{field: field, dst: dst, frame: frame, y0: start, y1: end}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}
