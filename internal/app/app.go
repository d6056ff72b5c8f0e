package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/rentdesk/internal/catalog"
	"github.com/five82/rentdesk/internal/config"
	"github.com/five82/rentdesk/internal/diag"
	"github.com/five82/rentdesk/internal/prefs"
	"github.com/five82/rentdesk/internal/state"
	"github.com/five82/rentdesk/internal/ui"
)

// Options configure the rentdesk application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/rentdesk/prefs.toml
	APIURL     string // overrides config and environment when set
	PollEvery  int    // seconds; negative uses default, zero disables
}

// Run boots the rentdesk TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}

	logger, closeLog, err := diag.New(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		// The UI still works without a log file.
		fmt.Fprintf(os.Stderr, "rentdesk: diagnostics disabled: %v\n", err)
		logger, closeLog = diag.Nop(), func() error { return nil }
	}
	defer func() { _ = closeLog() }()

	userPrefs := prefs.Load(opts.PrefsPath)

	store := &state.Store{}
	client, err := catalog.NewClient(cfg.APIURL,
		catalog.WithLogger(logger.Named("catalog")),
		catalog.WithObserver(store),
		catalog.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	logger.Info("rentdesk starting",
		zap.String("api_url", client.BaseURL()),
		zap.String("theme", userPrefs.Theme),
		zap.Int("page_size", cfg.PageSize),
	)

	interval := probeInterval(opts.PollEvery)
	StartProbe(ctx, client, interval, logger.Named("probe"))

	uiOpts := ui.Options{
		Context:    ctx,
		Service:    client,
		Store:      store,
		Config:     &cfg,
		Logger:     logger.Named("ui"),
		ThemeName:  userPrefs.Theme,
		SearchType: catalog.ParseSearchType(userPrefs.SearchType),
		PrefsPath:  opts.PrefsPath,
		LogPath:    cfg.LogPath(),
		PageSize:   cfg.PageSize,
	}
	err = ui.Run(uiOpts)
	logger.Info("rentdesk stopped", zap.Error(err))
	return err
}

func probeInterval(seconds int) time.Duration {
	switch {
	case seconds < 0:
		return defaultProbeInterval
	case seconds == 0:
		return 0
	default:
		return time.Duration(seconds) * time.Second
	}
}
