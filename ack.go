package marketplace

import "context"

// Ack reports the outcome of one queued cart write. Callers that do not
// need durability can drop it.
type Ack struct {
	done chan struct{}
	err  error
}

func newAck() *Ack {
	return &Ack{done: make(chan struct{})}
}

func completedAck(err error) *Ack {
	a := newAck()
	a.complete(err)
	return a
}

func (a *Ack) complete(err error) {
	a.err = err
	close(a.done)
}

// Done is closed once the write has finished.
func (a *Ack) Done() <-chan struct{} {
	return a.done
}

// Err returns the write error. It is only meaningful after Done is closed.
func (a *Ack) Err() error {
	select {
	case <-a.done:
		return a.err
	default:
		return nil
	}
}

// Wait blocks until the write finishes or ctx is done.
func (a *Ack) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
