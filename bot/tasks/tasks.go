package tasks

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-co-op/gocron"
)

// Shown as "Watching for new members 👀".
const PresenceText = "for new members 👀"

type StatusUpdater interface {
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
}

var _ StatusUpdater = (*discordgo.Session)(nil)

func Presence() discordgo.UpdateStatusData {
	return discordgo.UpdateStatusData{
		Status: string(discordgo.StatusOnline),
		Activities: []*discordgo.Activity{
			{Name: PresenceText, Type: discordgo.ActivityTypeWatching},
		},
	}
}

// RefreshPresence restores the watching status, which Discord drops after a
// gateway reconnect.
func RefreshPresence(s StatusUpdater) func() {
	return func() {
		if err := s.UpdateStatusComplex(Presence()); err != nil {
			slog.Warn("An error occurred while updating presence", "error", err)
		}
	}
}

// Start runs the periodic tasks until the returned scheduler is stopped. Each
// task also runs once immediately.
func Start(s StatusUpdater, presenceInterval time.Duration) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	if _, err := scheduler.Every(presenceInterval).Do(RefreshPresence(s)); err != nil {
		return nil, fmt.Errorf("failed to schedule presence refresh: %w", err)
	}

	scheduler.StartAsync()
	return scheduler, nil
}
