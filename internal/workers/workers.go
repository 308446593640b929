package workers

type Workers struct {
	workers []Worker
}

// New aggregates the given workers. Run starts them in the given order.
func New(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
