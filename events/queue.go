package events

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	log "github.com/Sirupsen/logrus"
)

const defaultQueueSize = 1000

type WorkQueue interface {
	Init()
	Close()
	Enqueue(WorkTask)
}

type WorkTask interface {
	Do()
}

// IndexerQueue runs tasks one at a time in arrival order.
type IndexerQueue struct {
	Size int

	tasks  chan WorkTask
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func (q *IndexerQueue) Init() {
	size := q.Size
	if size <= 0 {
		size = defaultQueueSize
	}
	q.tasks = make(chan WorkTask, size)
	q.done = make(chan struct{})

	q.wg.Add(1)
	go q.work()
}

func (q *IndexerQueue) work() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			return
		case t, ok := <-q.tasks:
			if !ok {
				return
			}
			t.Do()
		}
	}
}

// Close stops accepting tasks and gives the pending ones 5 seconds to finish.
func (q *IndexerQueue) Close() {
	q.mu.Lock()
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	if !WaitTimeout(&q.wg, 5*time.Second) {
		log.Warnf("IndexerQueue: closed with %d pending tasks", len(q.tasks))
	}
	close(q.done)
}

// Enqueue blocks while the queue is full. Tasks enqueued after Close are dropped.
func (q *IndexerQueue) Enqueue(task WorkTask) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		log.Warnf("IndexerQueue: closed, dropping %v", task)
		return
	}
	for {
		select {
		case q.tasks <- task:
			return
		case <-time.After(2 * time.Second):
			log.Warnf("IndexerQueue: full, still waiting to enqueue %v", task)
		}
	}
}

// IndexerTask applies one index operation to a row id.
type IndexerTask struct {
	Name string
	F    func(id int64) error
	ID   int64
}

func (t IndexerTask) String() string {
	return fmt.Sprintf("%s [%d]", t.Name, t.ID)
}

func (t IndexerTask) Do() {
	clock := time.Now()

	defer func() {
		if rval := recover(); rval != nil {
			log.Errorf("%s panic: %v\n%s", t, rval, debug.Stack())
		}
	}()

	if err := t.F(t.ID); err != nil {
		log.Errorf("%s: %s", t, err.Error())
		return
	}
	log.Infof("%s took %s", t, time.Since(clock))
}

// WaitTimeout reports whether wg finished waiting before the timeout.
func WaitTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	ch := make(chan struct{})
	go func() {
		wg.Wait()
		close(ch)
	}()
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}
