package background

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func randInt() int {
	sign := rand.Intn(100)
	value := rand.Intn(math.MaxInt32)
	if sign < 50 {
		return -value
	}
	return value
}

func producer(id string, data chan<- int) func(context.Context) {
	return func(ctx context.Context) {
		for {
			select {
			case data <- randInt():
			case <-ctx.Done():
				fmt.Println(id, "done")
				return
			}
		}
	}
}

func consumer(id string, data <-chan int) func(context.Context) {
	return func(ctx context.Context) {
		for {
			select {
			case _, ok := <-data:
				if !ok {
					fmt.Println(id, "exited on closed data channel")
					return
				}
			case <-ctx.Done():
				fmt.Println(id, "done")
				return
			}
		}
	}
}

func ExampleScope() {
	data1, data2, data3 := make(chan int), make(chan int), make(chan int)

	write1, stopWrite1 := NewScope(context.Background())
	read1, stopRead1 := NewScope(context.Background())
	write2, stopWrite2 := NewScope(context.Background())
	read3, stopRead3 := NewScope(context.Background())

	write1.Go(producer("DATA-1 *PRODUCER*", data1))
	read1.Go(consumer("DATA-1 *CONSUMER*", data1))
	write2.Go(producer("DATA-2 *PRODUCER*", data2)) // blocked due to no consumer for data2
	read3.Go(consumer("DATA-3 *CONSUMER*", data3))  // blocked due to no producer for data3

	time.Sleep(50 * time.Millisecond)

	// Stop all background scopes in desired order:
	stopWrite2()
	stopRead3()
	stopWrite1()
	stopRead1()

	// Output:
	//
	// DATA-2 *PRODUCER* done
	// DATA-3 *CONSUMER* done
	// DATA-1 *PRODUCER* done
	// DATA-1 *CONSUMER* done
}

func ExampleScope_severalMembers() {
	data := make(chan int)

	scope, stop := NewScope(context.Background())

	scope.Go(producer("*PRODUCER-1*", data))
	scope.Go(producer("*PRODUCER-2*", data))
	scope.Go(producer("*PRODUCER-3*", data))

	time.Sleep(50 * time.Millisecond)

	stop()

	// Unordered output:
	//
	// *PRODUCER-1* done
	// *PRODUCER-2* done
	// *PRODUCER-3* done
}

func TestScope_CancelThenWait(test *testing.T) {
	scope, stop := NewScope(context.Background())
	defer stop()

	released := make(chan struct{})
	scope.Go(func(ctx context.Context) {
		<-ctx.Done()
		close(released)
	})
	assert.False(test, scope.Expired())

	scope.Cancel()
	assert.True(test, scope.Expired())
	scope.Wait()

	select {
	case <-released:
	default:
		test.Error("member is not done after Wait")
	}
}

func TestScope_ParentCancel(test *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	scope, stop := NewScope(parent)
	defer stop()

	cancel()
	assert.True(test, scope.Expired())
}
