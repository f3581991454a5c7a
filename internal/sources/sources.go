// Package sources builds the level sources a front end plays from,
// according to the configured content format.
package sources

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/fifteen-days/internal/config"
	"github.com/jwebster45206/fifteen-days/pkg/conditionals"
	"github.com/jwebster45206/fifteen-days/pkg/content"
	"github.com/jwebster45206/fifteen-days/pkg/level"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
	"github.com/jwebster45206/fifteen-days/pkg/settlement"
)

// Build returns one level source per locale with content. The configured
// locale is always present; with the CSV format a missing file leaves it
// serving placeholder text.
func Build(cfg *config.Config, logger *slog.Logger) (map[locale.Locale]level.Source, error) {
	var reqs conditionals.Source
	if cfg.RequirementsFile != "" {
		table, err := content.LoadRequirements(cfg.RequirementsFile)
		if err != nil {
			return nil, err
		}
		reqs = table
		logger.Info("Loaded requirement table", "path", cfg.RequirementsFile, "rows", len(table))
	}

	switch cfg.ContentFormat {
	case config.FormatCSV:
		return csvSources(cfg, reqs, logger), nil
	case config.FormatScript:
		sc, err := content.LoadScript(cfg.LevelScript)
		if err != nil {
			return nil, err
		}
		loc := cfg.Locale
		if sc.Locale != "" {
			loc = locale.Parse(sc.Locale)
		}
		logger.Info("Loaded level script", "path", cfg.LevelScript, "locale", loc, "days", len(sc.Days))
		return map[locale.Locale]level.Source{
			loc: level.NewScriptSource(sc, reqs, loc),
		}, nil
	default:
		return nil, fmt.Errorf("unknown content format %q", cfg.ContentFormat)
	}
}

func csvSources(cfg *config.Config, reqs conditionals.Source, logger *slog.Logger) map[locale.Locale]level.Source {
	opts := []content.Option{
		content.WithDirs(append([]string{cfg.DataDir, "."}, content.ExecutableDirs()...)...),
		content.WithLogger(logger),
	}
	if reqs != nil {
		opts = append(opts, content.WithRequirements(reqs))
	}

	parser := settlement.New()
	out := make(map[locale.Locale]level.Source)
	for _, loc := range locale.Supported {
		store := content.Load(loc, opts...)
		if store.Path() == "" && loc != cfg.Locale {
			continue
		}
		out[loc] = level.NewCSVSource(store, parser)
	}
	return out
}
