package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// LineTask represents a scanline rendering task for the worker pool
type LineTask struct {
	Line   int // Row to render, 0 is the top
	TaskID int // For deterministic ordering
}

// LineResult contains the result from rendering a scanline
type LineResult struct {
	TaskID   int
	Line     int
	WorkerID int
}

// WorkerPool manages parallel scanline rendering into a shared pixel buffer
type WorkerPool struct {
	taskQueue   chan LineTask
	resultQueue chan LineResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual scanline tasks with its own integrator
type Worker struct {
	ID          int
	renderer    *LineRenderer
	pixels      []byte // Shared buffer; each task writes only its own row
	taskQueue   chan LineTask
	resultQueue chan LineResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(world *scene.World, pixels []byte, factory integrator.Factory, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// Buffer for every scanline so submitting never blocks
	wp := &WorkerPool{
		taskQueue:   make(chan LineTask, world.Height),
		resultQueue: make(chan LineResult, world.Height),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			renderer:    NewLineRenderer(world, factory(world)),
			pixels:      pixels,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers once the queued tasks are done
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a scanline task to the worker pool
func (wp *WorkerPool) SubmitTask(task LineTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed scanline result
func (wp *WorkerPool) GetResult() (LineResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Stats merges every worker's counters. Call only after Stop.
func (wp *WorkerPool) Stats() integrator.Stats {
	var total integrator.Stats
	for _, worker := range wp.workers {
		total.Merge(worker.renderer.Stats())
	}
	return total
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.renderer.RenderLine(task.Line, w.pixels)

		w.resultQueue <- LineResult{
			TaskID:   task.TaskID,
			Line:     task.Line,
			WorkerID: w.ID,
		}
	}
}
