// Package inbox provides the queue handing decoded lines from a network reader
// over to the terminal session.
package inbox

import "sync"

// Queue - unbounded FIFO of text lines, safe for concurrent use.
type Queue struct {
	mu   sync.Mutex
	data []string
}

// NewQueue - builds empty queue.
func NewQueue() *Queue {
	return &Queue{data: []string{}}
}

// Len - returns number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}

// Push - appends item to the end of queue.
func (q *Queue) Push(item string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.data = append(q.data, item)
}

// Drain - atomically removes every queued item.
// The first item in resulting slice is the oldest one.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return nil
	}
	items := q.data
	q.data = []string{}
	return items
}
