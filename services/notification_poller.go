package services

import (
	"log"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/wheelworks/wheelshop-api/config"
	"github.com/wheelworks/wheelshop-api/models"
)

// NotificationPoller recounts unread notifications on a fixed 30-second
// interval and caches the per-user counts for the unread-count endpoint.
// A tick that is still running when the next one fires is skipped rather
// than queued, so a slow database can never pile up overlapping recounts.
type NotificationPoller struct {
	cron   *cron.Cron
	mu     sync.RWMutex
	counts map[uint]int64
}

// NewNotificationPoller creates a poller; call Start to begin polling.
func NewNotificationPoller() *NotificationPoller {
	return &NotificationPoller{
		counts: make(map[uint]int64),
	}
}

// Start schedules the recount every 30 seconds.
func (p *NotificationPoller) Start() error {
	logger := cron.VerbosePrintfLogger(log.Default())
	p.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
		cron.Recover(logger),
	))
	if _, err := p.cron.AddFunc("@every 30s", p.refresh); err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop cancels the schedule. The in-flight tick, if any, finishes.
func (p *NotificationPoller) Stop() {
	if p.cron != nil {
		p.cron.Stop()
	}
}

// Refresh recounts immediately. Exposed so tests and the boot sequence don't
// have to wait 30 seconds for the first tick.
func (p *NotificationPoller) Refresh() {
	p.refresh()
}

func (p *NotificationPoller) refresh() {
	db := config.GetDB()
	if db == nil {
		return
	}

	type row struct {
		UserID uint
		Count  int64
	}
	var rows []row
	err := db.Model(&models.Notification{}).
		Select("user_id, count(*) as count").
		Where("read = ?", false).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		log.Printf("notification poller: failed to recount unread notifications: %v", err)
		return
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}

	p.mu.Lock()
	p.counts = counts
	p.mu.Unlock()
}

// UnreadCount returns the cached unread count for a user.
func (p *NotificationPoller) UnreadCount(userID uint) int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.counts[userID]
}

var notificationPollerInstance *NotificationPoller

// InitNotificationPoller initializes and returns the global poller.
func InitNotificationPoller() *NotificationPoller {
	notificationPollerInstance = NewNotificationPoller()
	return notificationPollerInstance
}

// GetNotificationPoller returns the global poller instance.
func GetNotificationPoller() *NotificationPoller {
	return notificationPollerInstance
}

// SetNotificationPoller sets the global poller (primarily for testing).
func SetNotificationPoller(p *NotificationPoller) {
	notificationPollerInstance = p
}
