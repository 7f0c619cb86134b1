package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/sixtyseconds/internal/config"
	"github.com/i474232898/sixtyseconds/internal/digest"
	"github.com/i474232898/sixtyseconds/internal/digest/sources"
	"github.com/i474232898/sixtyseconds/internal/notify"
	"github.com/i474232898/sixtyseconds/internal/plugin"
	"github.com/i474232898/sixtyseconds/internal/scheduler"
	"github.com/i474232898/sixtyseconds/internal/store"
)

// setupLogging configures the standard logrus logger from cfg.
func setupLogging(cfg *config.AppConfig) {
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

// buildNotifier always logs; Telegram is added when a bot token is configured.
func buildNotifier(cfg *config.AppConfig) digest.Notifier {
	notifiers := notify.Multi{notify.NewLogNotifier(log.StandardLogger())}

	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.WithError(err).Error("telegram notifier disabled")
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	return notifiers
}

// buildService wires the source, store and notifier into a digest service.
func buildService(cfg *config.AppConfig) *digest.Service {
	httpClient := sources.NewHTTPClient(cfg.HTTPTimeout, cfg.HTTPCache, cfg.HTTPCacheDir)
	src := sources.NewSixtySecondsSource(httpClient, cfg.APIURL)

	return digest.NewService(store.NewMemoryStore(), src, buildNotifier(cfg))
}

// buildPlugin wires the service to the settings store and a cron scheduler.
func buildPlugin(cfg *config.AppConfig, svc *digest.Service, settings *config.SettingsStore) *plugin.Plugin {
	runTimeout := cfg.HTTPTimeout * 3
	return plugin.New(svc, settings, func(h scheduler.Handler) plugin.CronScheduler {
		return scheduler.New(cfg.Location, runTimeout, h)
	})
}
