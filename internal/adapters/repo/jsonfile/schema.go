package jsonfile

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int           `json:"version"`
	SavedAt  string        `json:"savedAt,omitempty"`
	WasRight bool          `json:"wasRight"`
	Entries  []entrySchema `json:"entries"`
}

type entrySchema struct {
	PromptText   string `json:"promptText"`
	LeftAnswers  string `json:"leftAnswers"`
	RightAnswers string `json:"rightAnswers"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Entries == nil {
		s.Entries = []entrySchema{}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported history schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}
