// Package plugin owns the digest lifecycle: settings, the schedule and the
// inbound command/event surface.
package plugin

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/i474232898/sixtyseconds/internal/config"
	"github.com/i474232898/sixtyseconds/internal/digest"
	"github.com/i474232898/sixtyseconds/internal/scheduler"
	"github.com/i474232898/sixtyseconds/internal/widget"
)

const (
	// CommandName is the chat command that requests a fresh digest.
	CommandName = "/60s"
	// EventPluginAction is the event type that carries plugin actions.
	EventPluginAction = "PluginAction"
	// ActionSixtySeconds is the action value this plugin responds to.
	ActionSixtySeconds = "sixty_seconds"
)

// Command describes a chat command this plugin registers.
type Command struct {
	Cmd      string            `json:"cmd"`
	Event    string            `json:"event"`
	Desc     string            `json:"desc"`
	Category string            `json:"category"`
	Data     map[string]string `json:"data"`
}

// Event is an inbound event from the event bus.
type Event struct {
	Type string         `json:"type" validate:"required"`
	Data map[string]any `json:"data"`
}

// SettingsSaver persists settings. *config.SettingsStore satisfies it.
type SettingsSaver interface {
	Save(settings config.Settings) error
}

// SchedulerFactory builds a scheduler for one settings generation.
type SchedulerFactory func(handler scheduler.Handler) CronScheduler

// CronScheduler is the part of *scheduler.Scheduler the plugin drives.
type CronScheduler interface {
	Start(expr string) error
	NextRun() (time.Time, bool)
	Stop()
}

// Plugin wires the digest service to its settings and schedule.
type Plugin struct {
	service  *digest.Service
	saver    SettingsSaver
	newSched SchedulerFactory

	// initMu serializes Init so only one settings generation owns a scheduler.
	// It is separate from mu so renders are not blocked by a one-shot fetch.
	initMu sync.Mutex

	mu        sync.RWMutex
	settings  config.Settings
	scheduler CronScheduler
	cronErr   error
}

// New creates a Plugin with default settings. Call Init to apply real settings.
func New(service *digest.Service, saver SettingsSaver, newSched SchedulerFactory) *Plugin {
	return &Plugin{
		service:  service,
		saver:    saver,
		newSched: newSched,
		settings: config.DefaultSettings(),
	}
}

// Init applies settings: it stops the running schedule, runs a one-shot fetch
// when OnlyOnce is set (clearing and persisting the flag first), and starts the
// schedule when the plugin is enabled. An invalid cron expression is logged and
// leaves the plugin enabled without a scheduled job.
func (p *Plugin) Init(ctx context.Context, settings config.Settings) {
	p.initMu.Lock()
	defer p.initMu.Unlock()

	logger := log.WithField("component", "plugin")

	p.stopScheduler()

	runOnce := settings.OnlyOnce
	if runOnce {
		settings.OnlyOnce = false
		if p.saver != nil {
			if err := p.saver.Save(settings); err != nil {
				logger.WithError(err).Error("failed to persist cleared onlyonce flag")
			}
		}
	}

	p.mu.Lock()
	p.settings = settings
	p.cronErr = nil
	p.mu.Unlock()

	p.service.SetNotify(settings.Notify)

	if runOnce {
		logger.Info("onlyonce set; fetching digest now")
		p.service.Handle(ctx, digest.NewTrigger(digest.TriggerOnce, ""))
	}

	if !settings.Enabled {
		logger.Info("plugin disabled; no schedule started")
		return
	}

	sched := p.newSched(p.service)
	if err := sched.Start(settings.Cron); err != nil {
		logger.WithError(err).Error("schedule not registered")
		p.mu.Lock()
		p.cronErr = err
		p.mu.Unlock()
		sched.Stop()
		return
	}

	p.mu.Lock()
	p.scheduler = sched
	p.mu.Unlock()
}

// Stop stops the running schedule, if any. It waits for an Init in progress.
func (p *Plugin) Stop() {
	p.initMu.Lock()
	defer p.initMu.Unlock()

	p.stopScheduler()
}

func (p *Plugin) stopScheduler() {
	p.mu.Lock()
	sched := p.scheduler
	p.scheduler = nil
	p.mu.Unlock()

	if sched != nil {
		sched.Stop()
	}
}

// State reports whether the plugin is enabled.
func (p *Plugin) State() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.Enabled
}

// Status is a read-only view of the plugin for the API.
type Status struct {
	Enabled   bool       `json:"enabled"`
	Scheduled bool       `json:"scheduled"`
	NextRun   *time.Time `json:"nextRun,omitempty"`
	CronError string     `json:"cronError,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (p *Plugin) Status() Status {
	p.mu.RLock()
	st := Status{Enabled: p.settings.Enabled}
	if p.cronErr != nil {
		st.CronError = p.cronErr.Error()
	}
	sched := p.scheduler
	p.mu.RUnlock()

	if sched != nil {
		if next, ok := sched.NextRun(); ok {
			st.Scheduled = true
			st.NextRun = &next
		}
	}
	if snap, ok := p.service.Latest(); ok {
		st.UpdatedAt = &snap.UpdatedAt
	}
	return st
}

// Settings returns the active settings.
func (p *Plugin) Settings() config.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// Commands lists the chat commands this plugin handles.
func (p *Plugin) Commands() []Command {
	return []Command{
		{
			Cmd:      CommandName,
			Event:    EventPluginAction,
			Desc:     digest.Title,
			Category: "资讯",
			Data:     map[string]string{"action": ActionSixtySeconds},
		},
	}
}

// HandleCommand runs a chat command. It reports false for unknown commands.
func (p *Plugin) HandleCommand(ctx context.Context, cmd string) (handled bool, ok bool) {
	if cmd != CommandName {
		return false, false
	}
	log.WithField("component", "plugin").Infof("command %s received; fetching digest", cmd)
	return true, p.service.Handle(ctx, digest.NewTrigger(digest.TriggerCommand, cmd))
}

// HandleEvent runs a plugin action event. Events for other actions are ignored.
func (p *Plugin) HandleEvent(ctx context.Context, ev Event) (handled bool, ok bool) {
	if action, _ := ev.Data["action"].(string); ev.Type != EventPluginAction || action != ActionSixtySeconds {
		return false, false
	}
	log.WithField("component", "plugin").Info("plugin action received; fetching digest")
	return true, p.service.Handle(ctx, digest.NewTrigger(digest.TriggerEvent, ev.Type))
}

// Data returns the cached digest snapshot.
func (p *Plugin) Data() (digest.Snapshot, bool) {
	return p.service.Latest()
}

// Page renders the detail page.
func (p *Plugin) Page() []widget.Node {
	snap, ok := p.service.Latest()
	return widget.Page(snap, ok, p.Settings().Cover)
}

// Dashboard renders the dashboard widget; false means there is nothing to show.
func (p *Plugin) Dashboard() (widget.Dashboard, bool) {
	snap, ok := p.service.Latest()
	return widget.RenderDashboard(snap, ok, p.Settings().Cover)
}

// Form returns the settings form and its default model.
func (p *Plugin) Form() ([]widget.Node, config.Settings) {
	return widget.SettingsForm(), config.DefaultSettings()
}
