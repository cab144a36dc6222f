package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/sheetcalc/internal/ctxlog"
	"github.com/vk/sheetcalc/internal/formula"
	"github.com/vk/sheetcalc/internal/sheet"
)

// Loader reads the raw cell texts of a sheet file.
type Loader interface {
	Load(ctx context.Context, path string) ([][]string, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader Loader
	parser *sheet.Parser
}

// NewApp is the constructor for the main application. Results are written
// to outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	cache, err := formula.NewCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		parser: sheet.NewParser(cache),
	}, nil
}

// Run loads the sheet, evaluates it, applies the configured updates and
// writes the final grid.
func (a *App) Run(ctx context.Context) error {
	ctx, logger := ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "sheet", a.config.SheetPath)
	logger.Debug("App.Run method started.")

	rows, err := a.loader.Load(ctx, a.config.SheetPath)
	if err != nil {
		return fmt.Errorf("failed to load sheet: %w", err)
	}

	s, err := sheet.New(ctx, a.parser.ParseGrid(rows), sheet.WithMaxDepth(a.config.MaxDepth))
	if err != nil {
		return fmt.Errorf("failed to build sheet: %w", err)
	}
	outputs, err := s.Outputs()
	if err != nil {
		return fmt.Errorf("failed to evaluate sheet: %w", err)
	}

	for _, u := range a.config.Updates {
		logger.Debug("Applying update.", "cell", u.Address.String(), "text", u.Text)
		if err := s.Set(u.Address, a.parser.Parse(u.Text)); err != nil {
			return fmt.Errorf("failed to update %s: %w", u.Address, err)
		}
	}
	if len(a.config.Updates) > 0 {
		if outputs, err = s.Outputs(); err != nil {
			return fmt.Errorf("failed to re-evaluate sheet: %w", err)
		}
	}

	failed := 0
	for _, row := range outputs {
		for _, out := range row {
			if out.Failed() {
				failed++
			}
		}
	}
	logger.Info("Sheet evaluated.", "rows", s.Rows(), "columns", s.Columns(), "failed", failed, "updates", len(a.config.Updates))

	if err := Render(a.outW, a.config.Output, outputs); err != nil {
		return fmt.Errorf("failed to render sheet: %w", err)
	}
	logger.Debug("App.Run method finished.")
	return nil
}
