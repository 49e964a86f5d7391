package ports

import (
	"context"

	"github.com/bnema/questionnaire/internal/domain"
)

type ScriptSource interface {
	LoadScript(ctx context.Context, path string) (*domain.Script, error)
}
