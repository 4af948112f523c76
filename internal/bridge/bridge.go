// Package bridge carries commands from the UI layer to the runtime worker.
// Senders never block: the queue between them is unbounded and strictly FIFO.
// Each command carries a one-shot response channel; callers bound their wait
// with a context and Await.
package bridge

import (
	"context"
	"errors"
	"sync"
)

// ErrCommandCanceled reports that the bridge shut down before the command was
// executed. Distinct from a command that ran and failed.
var ErrCommandCanceled = errors.New("command canceled")

// Bridge is the unbounded FIFO command queue. A pump goroutine buffers
// between the send side and the single worker consuming Commands().
type Bridge struct {
	in  chan Command
	out chan Command

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
}

func New() *Bridge {
	b := &Bridge{
		in:     make(chan Command),
		out:    make(chan Command),
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go b.pump()
	return b
}

// pump shuttles commands from in to out through a slice buffer so senders
// never block on a slow worker. On close, buffered commands are dropped with
// their response channels closed so awaiting callers unblock.
func (b *Bridge) pump() {
	defer close(b.done)
	var queue []Command
	for {
		var (
			out  chan Command
			next Command
		)
		if len(queue) > 0 {
			out = b.out
			next = queue[0]
		}
		select {
		case cmd := <-b.in:
			queue = append(queue, cmd)
		case out <- next:
			queue = queue[1:]
		case <-b.closed:
			for _, cmd := range queue {
				cmd.cancel()
			}
			close(b.out)
			return
		}
	}
}

// Send enqueues a command. It returns ErrCommandCanceled if the bridge has
// shut down.
func (b *Bridge) Send(cmd Command) error {
	select {
	case b.in <- cmd:
		return nil
	case <-b.closed:
		cmd.cancel()
		return ErrCommandCanceled
	}
}

// Commands is the worker's intake. It is closed after Close drains the queue.
func (b *Bridge) Commands() <-chan Command {
	return b.out
}

// Close stops the queue. Pending commands are canceled, not executed.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
	<-b.done
}

// Await blocks until the one-shot response channel delivers, the channel is
// closed, or the context expires. A closed channel means the command was
// dropped before execution.
func Await[T any](ctx context.Context, rsp <-chan T) (T, error) {
	var zero T
	select {
	case v, ok := <-rsp:
		if !ok {
			return zero, ErrCommandCanceled
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
