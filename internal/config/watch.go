package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of fsnotify events an editor save
// produces into a single reload.
const reloadDebounce = 100 * time.Millisecond

// WatchAlerts monitors the config file at path and applies alert rule
// changes at runtime. Only the alerts section is hot-reloadable; all other
// settings require a restart, so apply receives just the AlertsConfig.
// WatchAlerts blocks until ctx is cancelled.
//
// A file that fails to load or validate is ignored and the rules that were
// active before the save stay in effect.
func WatchAlerts(ctx context.Context, path string, apply func(AlertsConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching alert rules", "path", path)

	debounce := time.NewTimer(reloadDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Saves arrive as Write, atomic saves as Create on the new inode.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !pending {
				debounce.Reset(reloadDebounce)
				pending = true
			}

		case <-debounce.C:
			pending = false

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload rejected, keeping active alert rules",
					"path", path, "err", err)
				continue
			}

			slog.Info("config: alert rules reloaded",
				"path", path,
				"rules", len(cfg.Server.Alerts.Rules),
				"webhooks", len(cfg.Server.Alerts.Webhooks),
			)
			apply(cfg.Server.Alerts)

			// An atomic save replaced the inode; track the new one.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
