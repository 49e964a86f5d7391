package application

import (
	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

// outbox buffers events and item hooks raised under the machine lock. They
// run in emission order after the lock is released, so sinks may call back
// into the machine.
type outbox struct {
	sinks   []ports.EventSink
	pending []func()
}

func (o *outbox) emit(event domain.Event) {
	sinks := o.sinks
	o.pending = append(o.pending, func() {
		for _, sink := range sinks {
			sink.Handle(event)
		}
	})
}

func (o *outbox) call(hook func()) {
	o.pending = append(o.pending, hook)
}

func (o *outbox) take() func() {
	pending := o.pending
	o.pending = nil
	return func() {
		for _, fn := range pending {
			fn()
		}
	}
}
