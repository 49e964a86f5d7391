// Package toml loads session scripts from TOML files.
package toml

import (
	"bytes"
	"context"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

type Loader struct{}

var _ ports.ScriptSource = (*Loader)(nil)

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) LoadScript(ctx context.Context, path string) (*domain.Script, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script file: %w", err)
	}

	script, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}
	return script, nil
}

// Decode parses and validates a script. Unknown keys are rejected so a typo
// cannot silently drop a rule parameter.
func Decode(data []byte) (*domain.Script, error) {
	var file scriptSchema
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return nil, err
	}
	file.applyDefaults()

	script, err := file.toScript()
	if err != nil {
		return nil, err
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("validate script: %w", err)
	}
	return script, nil
}
