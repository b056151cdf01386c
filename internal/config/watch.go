package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and calls onChange with the newly loaded Config each
// time the file is rewritten. The main use is tuning scoring thresholds
// (AUM bars, target segment, tolerance) while candidate sessions are live.
// Watch runs until ctx is cancelled.
//
// A reload that fails to parse or validate is logged and dropped; the
// previous config stays active and onChange is not called.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for threshold changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Writes and creates both count: editors doing an atomic save
			// replace the file rather than writing it in place.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			reload(path, onChange)

			// An atomic save swapped the inode out from under the watch.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

// reload loads the rewritten file and hands it to onChange, logging the
// scoring values that tend to be the reason anyone edits the file live.
func reload(path string, onChange func(*Config)) {
	cfg, err := Load(path)
	if err != nil {
		slog.Error("config: reload failed — keeping previous config",
			"path", path, "err", err)
		return
	}

	slog.Info("config: reloaded",
		"path", path,
		"aum_bar_m", cfg.Scoring.DefaultAUMThresholdM,
		"target_segment", cfg.Scoring.TargetSegment,
		"tolerance_pct", cfg.Scoring.TolerancePct,
		"save_mode", cfg.Save.Mode,
	)
	onChange(cfg)
}
