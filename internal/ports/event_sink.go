package ports

import "github.com/bnema/questionnaire/internal/domain"

// EventSink consumes session events synchronously, in emission order.
type EventSink interface {
	Handle(event domain.Event)
}

type EventSinkFunc func(event domain.Event)

func (f EventSinkFunc) Handle(event domain.Event) {
	f(event)
}
