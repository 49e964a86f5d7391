package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

type playOptions struct {
	script   string
	left     []string
	right    []string
	tick     time.Duration
	maxTicks int
	side     string
	save     bool
}

func newPlayCmd(app *app) *cobra.Command {
	opts := playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run a scripted two-peer session",
		Long: "play runs a session between a left and a right peer over an in-process transport. " +
			"Each --left/--right flag answers the next prompt of that half: 1-based answer indices separated by commas, " +
			"the typed number for keypad prompts, or - to pass. Summaries are confirmed automatically.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.script, "script", "", "session script (TOML)")
	cmd.Flags().StringArrayVar(&opts.left, "left", nil, "answer of the left half for the next prompt (repeatable)")
	cmd.Flags().StringArrayVar(&opts.right, "right", nil, "answer of the right half for the next prompt (repeatable)")
	cmd.Flags().DurationVar(&opts.tick, "tick", 0, "simulated time per tick (default session.tick)")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", 1000, "stop with an error after this many ticks")
	cmd.Flags().StringVar(&opts.side, "side", "", "half printed and recorded as yours: left or right (default session.side)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the history when the session ends")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

func runPlay(cmd *cobra.Command, app *app, opts playOptions) error {
	ctx := cmd.Context()

	script, err := app.scripts.LoadScript(ctx, opts.script)
	if err != nil {
		return err
	}

	tick := opts.tick
	if tick <= 0 {
		if tick, err = app.sessionTick(); err != nil {
			return err
		}
	}

	side, err := app.sessionSide()
	if opts.side != "" {
		side, err = parseSide(opts.side)
	}
	if err != nil {
		return err
	}

	var plans [2][]answerSpec
	if plans[domain.HalfLeft], err = parsePlan("left", opts.left); err != nil {
		return err
	}
	if plans[domain.HalfRight], err = parsePlan("right", opts.right); err != nil {
		return err
	}

	var saveErr error
	var sinks []ports.EventSink
	if opts.save {
		sinks = append(sinks, app.history.RecordOnEnd(ctx, side == domain.HalfRight, func(err error) {
			saveErr = err
		}))
	}

	session, err := newPlaySession(playSessionConfig{
		script: script,
		out:    cmd.OutOrStdout(),
		local:  side,
		plans:  plans,
		sinks:  sinks,
		logger: app.logger,
	})
	if err != nil {
		return err
	}

	outcomes, err := session.run(ctx, tick, opts.maxTicks)
	if err != nil {
		return err
	}
	if saveErr != nil {
		return saveErr
	}

	return writePlayResult(cmd.OutOrStdout(), outcomes, opts.save, app.store.Path())
}

func writePlayResult(out io.Writer, outcomes []domain.Outcome, saved bool, path string) error {
	matched := 0
	for _, outcome := range outcomes {
		if outcome.Result {
			matched++
		}
	}

	if _, err := fmt.Fprintf(out, "session ended: %d/%d matched\n", matched, len(outcomes)); err != nil {
		return err
	}
	if saved {
		_, err := fmt.Fprintf(out, "history saved to %s\n", path)
		return err
	}
	return nil
}

// answerSpec is the input of one half for one prompt. A nil spec passes.
type answerSpec []int

var errInvalidAnswerSpec = errors.New("invalid answer")

func parsePlan(flag string, specs []string) ([]answerSpec, error) {
	plan := make([]answerSpec, 0, len(specs))
	for _, raw := range specs {
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == "-" {
			plan = append(plan, nil)
			continue
		}

		spec := answerSpec{}
		for _, part := range strings.Split(raw, ",") {
			value, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("parse --%s %q: %w", flag, raw, errInvalidAnswerSpec)
			}
			spec = append(spec, value)
		}
		plan = append(plan, spec)
	}
	return plan, nil
}
