package ports

import (
	"context"

	"github.com/bnema/questionnaire/internal/domain"
)

// HistoryStore persists the digest of the last finished session. Load returns
// domain.ErrHistoryNotFound for a missing or unreadable file.
type HistoryStore interface {
	Save(ctx context.Context, history domain.History) error
	Load(ctx context.Context) (domain.History, error)
}
