package inbox

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(test *testing.T) {
	q := NewQueue()
	assert.Equal(test, 0, q.Len())
	assert.Nil(test, q.Drain())

	q.Push("1")
	q.Push("2")
	q.Push("3")
	assert.Equal(test, 3, q.Len())
	assert.Equal(test, []string{"1", "2", "3"}, q.Drain())
	assert.Equal(test, 0, q.Len())
	assert.Nil(test, q.Drain())
}

func TestQueue_ConcurrentProducer(test *testing.T) {
	q := NewQueue()
	const total = 1000
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Push(strconv.Itoa(i))
		}
	}()

	received := []string{}
	for len(received) < total {
		received = append(received, q.Drain()...)
	}
	wg.Wait()

	for i, item := range received {
		if !assert.Equal(test, strconv.Itoa(i), item) {
			break
		}
	}
}
