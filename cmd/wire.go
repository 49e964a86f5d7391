package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/viper"

	tomlcatalog "github.com/bnema/questionnaire/internal/adapters/catalog/toml"
	historyrender "github.com/bnema/questionnaire/internal/adapters/render/history"
	"github.com/bnema/questionnaire/internal/adapters/repo/jsonfile"
	"github.com/bnema/questionnaire/internal/application"
	"github.com/bnema/questionnaire/internal/config"
	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/logging"
	"github.com/bnema/questionnaire/internal/ports"
)

type app struct {
	cfg             *viper.Viper
	logger          *logging.Logger
	scripts         ports.ScriptSource
	store           *jsonfile.Store
	history         *application.HistoryService
	historyRenderer func(domain.History, historyrender.RenderOptions) (string, error)
}

// wire builds the collaborators once flags are parsed. Logs go to logOut unless
// log.dir is set.
func (a *app) wire(configFile string, logOut io.Writer) error {
	cfg := viper.New()
	if err := config.Load(cfg, configFile); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg, logOut)
	if err != nil {
		return fmt.Errorf("wire logger: %w", err)
	}

	store, err := jsonfile.NewStore(cfg)
	if err != nil {
		return fmt.Errorf("wire history store: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.scripts = tomlcatalog.NewLoader()
	a.store = store
	a.history = application.NewHistoryService(store, ports.SystemClock{})
	a.historyRenderer = historyrender.Render
	return nil
}

func (a *app) close() error {
	if a.logger == nil {
		return nil
	}
	return a.logger.Close()
}

func newLogger(cfg *viper.Viper, logOut io.Writer) (*logging.Logger, error) {
	level := cfg.GetString(config.KeyLogLevel)
	dir := cfg.GetString(config.KeyLogDir)
	if dir == "" {
		return logging.New(logOut, level), nil
	}

	dir, err := config.NormalizePath(dir)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(dir, level)
}

func (a *app) sessionTick() (time.Duration, error) {
	raw := a.cfg.GetString(config.KeySessionTick)
	tick, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", config.KeySessionTick, raw, err)
	}
	if tick <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", config.KeySessionTick, tick)
	}
	return tick, nil
}

func (a *app) sessionSide() (domain.Half, error) {
	return parseSide(a.cfg.GetString(config.KeySessionSide))
}

func parseSide(raw string) (domain.Half, error) {
	switch raw {
	case "left":
		return domain.HalfLeft, nil
	case "right":
		return domain.HalfRight, nil
	default:
		return 0, fmt.Errorf("%w: %q (want left or right)", domain.ErrInvalidHalf, raw)
	}
}
