package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/questionnaire/internal/domain"
)

func TestLoaderLoadsExampleScript(t *testing.T) {
	t.Parallel()

	script, err := NewLoader().LoadScript(context.Background(), filepath.Join("testdata", "icebreaker.toml"))
	require.NoError(t, err)

	assert.Equal(t, "Icebreaker", script.Name)
	require.Equal(t, 5, script.Len())

	colour := script.Bundles[0]
	assert.Equal(t, domain.ItemKindPrompt, colour.Kind)
	assert.Equal(t, domain.SubtypeStandard, colour.Prompt.Subtype)
	assert.Equal(t, domain.RuleMatch, colour.Prompt.Rule)
	require.Len(t, colour.Prompt.Answers, 3)
	assert.Equal(t, domain.AnswerKindText, colour.Prompt.Answers[0].Kind)

	order := script.Bundles[1]
	assert.Equal(t, domain.SubtypeOrderedSequence, order.Prompt.Subtype)
	assert.Equal(t, 213, order.Prompt.ConditionA)

	review := script.Bundles[3]
	assert.Equal(t, domain.SummaryModeAllPast, review.Summary.Mode)
	assert.Equal(t, time.Second, review.SkipAfter())

	favourite := script.Bundles[4]
	assert.Equal(t, domain.AggregateMostSelected, favourite.Display.Aggregate)
	assert.Equal(t, 500*time.Millisecond, favourite.SkipAfter())
	require.Len(t, favourite.Display.Descriptions, 1)
}

func TestDecodeDefaults(t *testing.T) {
	t.Parallel()

	script, err := Decode([]byte(`
[[items]]
kind = "prompt"
rule = "any_valid"
  [[items.answers]]
  image = "cat.png"

[[items]]
kind = "summary"
`))
	require.NoError(t, err)

	assert.Equal(t, domain.SubtypeStandard, script.Bundles[0].Prompt.Subtype)
	assert.Equal(t, domain.AnswerKindIcon, script.Bundles[0].Prompt.Answers[0].Kind)
	assert.Equal(t, domain.SummaryModePrevious, script.Bundles[1].Summary.Mode)
	assert.Zero(t, script.Bundles[1].SkipAfter())
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "empty script",
			content: `name = "nothing"`,
			wantErr: domain.ErrEmptyScript,
		},
		{
			name: "unknown rule",
			content: `
[[items]]
kind = "prompt"
rule = "majority"
  [[items.answers]]
  text = "a"
`,
			wantErr: domain.ErrUnknownRule,
		},
		{
			name: "unknown kind",
			content: `
[[items]]
kind = "video"
`,
			wantErr: domain.ErrUnknownItemKind,
		},
		{
			name: "ordered sequence over nine answers",
			content: `
[[items]]
kind = "prompt"
subtype = "ordered_sequence"
rule = "one_specific"
condition_a = 1
answers = [
  {text = "1"}, {text = "2"}, {text = "3"}, {text = "4"}, {text = "5"},
  {text = "6"}, {text = "7"}, {text = "8"}, {text = "9"}, {text = "10"},
]
`,
			wantErr: domain.ErrPermutationTooLong,
		},
		{
			name:    "unknown field",
			content: "[[items]]\nkind = \"summary\"\nmood = \"happy\"\n",
		},
		{
			name:    "bad duration",
			content: "[[items]]\nkind = \"summary\"\nskip_after = \"soon\"\n",
		},
		{
			name:    "future version",
			content: "version = 2\n[[items]]\nkind = \"summary\"\n",
		},
		{
			name:    "malformed toml",
			content: "[[items]\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode([]byte(tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDecodeRejectsUnreachableSequenceCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		condition string
		wantErr   error
	}{
		{name: "empty", condition: "0", wantErr: domain.ErrMalformedPermutation},
		{name: "repeated", condition: "11", wantErr: domain.ErrMalformedPermutation},
		{name: "too short", condition: "21", wantErr: domain.ErrMalformedPermutation},
		{name: "too long", condition: "1233", wantErr: domain.ErrMalformedPermutation},
		{name: "position beyond answers", condition: "142", wantErr: domain.ErrConditionOutOfRange},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode([]byte(`
[[items]]
kind = "prompt"
subtype = "ordered_sequence"
rule = "one_specific"
repeat_on_mismatch = true
condition_a = ` + tt.condition + `
answers = [{text = "a"}, {text = "b"}, {text = "c"}]
`))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoaderMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().LoadScript(context.Background(), filepath.Join(t.TempDir(), "none.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
