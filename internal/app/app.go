package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/giftlist/internal/config"
	"github.com/five82/giftlist/internal/logging"
	"github.com/five82/giftlist/internal/prefs"
	"github.com/five82/giftlist/internal/render"
	"github.com/five82/giftlist/internal/state"
	"github.com/five82/giftlist/internal/ui"
	"github.com/five82/giftlist/internal/wishlist"
)

// Options configure the giftlist application.
type Options struct {
	ConfigPath string // empty uses ~/.config/giftlist/config.toml
	PrefsPath  string // empty uses ~/.config/giftlist/prefs.toml
	EnvFile    string // empty uses .env in the working directory
	APIURL     string // overrides the configured backend when set
}

// env is everything a command needs, built once from Options.
type env struct {
	cfg    config.Config
	log    *logrus.Logger
	client *wishlist.Client
	closer io.Closer
}

func (e *env) Close() error {
	return e.closer.Close()
}

func setup(opts Options) (*env, error) {
	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}

	logger, closer, err := logging.Open(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	client, err := wishlist.NewClient(cfg.APIURL,
		wishlist.WithTimeout(cfg.RequestTimeout),
		wishlist.WithRateLimit(cfg.RatePerSecond),
	)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init wishlist client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"api_url":       client.BaseURL(),
		"strict_delete": cfg.StrictDelete,
		"refresh":       cfg.RefreshInterval.String(),
	}).Info("giftlist starting")

	return &env{cfg: cfg, log: logger, client: client, closer: closer}, nil
}

// Run boots the giftlist TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	program := ui.NewProgram(ui.Options{
		Context:         ctx,
		Client:          e.client,
		Store:           &state.Store{},
		Logger:          e.log,
		LogPath:         e.cfg.LogFile,
		ThemeName:       userPrefs.Theme,
		PrefsPath:       opts.PrefsPath,
		StrictDelete:    e.cfg.StrictDelete,
		RefreshInterval: e.cfg.RefreshInterval,
	})

	// Theme changes saved by another running instance.
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		err := prefs.Watch(watchCtx, opts.PrefsPath, func(p prefs.Prefs) {
			program.Send(ui.ThemeChangedMsg{Name: p.Theme})
		})
		if err != nil {
			e.log.WithError(err).Warn("prefs watch stopped")
		}
	}()

	_, err = program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
		e.log.WithError(err).Error("ui exited")
		return err
	}
	e.log.Info("giftlist stopped")
	return nil
}

// List writes the whole collection, every wishlist expanded, as plain text.
func List(ctx context.Context, opts Options, w io.Writer) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	return writeList(ctx, e.client, e.log, w)
}

func writeList(ctx context.Context, client wishlist.API, log logrus.FieldLogger, w io.Writer) error {
	store := &state.Store{}
	if err := refresh(ctx, store, client, log); err != nil {
		return fmt.Errorf("fetch wishlists: %w", err)
	}
	snap := store.Snapshot()

	vs := state.NewViewState()
	for _, wl := range snap.Wishlists {
		vs.SetExpanded(wl.ID, true)
	}
	tree := render.Render(snap.Wishlists, vs, client.Role().Capabilities())
	_, err := io.WriteString(w, render.Text(tree))
	return err
}

// SwitchRole asks the backend for role and writes the role the backend
// granted.
func SwitchRole(ctx context.Context, opts Options, role string, w io.Writer) error {
	target, err := wishlist.ParseRole(role)
	if err != nil {
		return err
	}
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	return switchRole(ctx, e.client, e.log, target, w)
}

func switchRole(ctx context.Context, client wishlist.API, log logrus.FieldLogger, target wishlist.Role, w io.Writer) error {
	if err := client.SetRole(ctx, target); err != nil {
		log.WithError(err).WithField("role", string(target)).Error("switch role failed")
		return fmt.Errorf("switch role: %w", err)
	}
	got := client.Role()
	log.WithField("role", string(got)).Info("role switched")
	_, err := fmt.Fprintln(w, got)
	return err
}
