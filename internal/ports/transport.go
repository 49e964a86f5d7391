package ports

import (
	"context"

	"github.com/bnema/questionnaire/internal/domain"
)

// Transport delivers a message reliably, in sender order, to every peer of the
// session including the sender.
type Transport interface {
	SendReplicated(ctx context.Context, msg domain.Message) error
}

// Authority answers ownership queries for the local peer.
type Authority interface {
	IsAuthority(entity domain.Entity) bool
}
