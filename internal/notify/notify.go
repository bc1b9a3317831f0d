// Package notify delivers best-effort chat notifications for work order
// transitions and inventory warnings. Delivery failures are logged and
// never propagate back into the operation that triggered them.
package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/firewoodbank/fwb/internal/config"
	"github.com/firewoodbank/fwb/internal/workorder"
)

// Severity color hints shared by the platform adapters.
const (
	ColorInfo    = "#439fe0"
	ColorSuccess = "#36a64f"
	ColorWarning = "#f2c744"
)

// Event is one notification to post.
type Event struct {
	Title string
	Body  string
	Color string
}

// Sender posts an event to a chat platform.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// FromConfig builds the configured platform sender. Returns nil when
// notifications are disabled.
func FromConfig(cfg config.NotifyConfig) (Sender, error) {
	switch cfg.Platform {
	case "":
		return nil, nil
	case "slack":
		return NewSlackSender(cfg.Token, cfg.Channel), nil
	case "discord":
		return NewDiscordSender(cfg.Token, cfg.Channel)
	default:
		return nil, fmt.Errorf("notify: unsupported platform %q", cfg.Platform)
	}
}

// TransitionNotifier adapts a Sender to the coordinator's hook. Sends are
// bounded and fire-and-forget.
type TransitionNotifier struct {
	Sender  Sender
	Timeout time.Duration
}

// TransitionApplied formats and posts a committed transition.
func (n *TransitionNotifier) TransitionApplied(res *workorder.TransitionResult) {
	if n.Sender == nil || res == nil || res.Order == nil {
		return
	}
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := n.Sender.Send(ctx, FormatTransition(res)); err != nil {
		log.Printf("notify: send transition for %s failed: %v", res.Order.ID, err)
	}
}

// FormatTransition renders a transition result as a chat event.
func FormatTransition(res *workorder.TransitionResult) Event {
	ev := Event{
		Title: fmt.Sprintf("Work order for %s: %s → %s", res.Order.ClientName, res.From, res.To),
		Color: ColorInfo,
	}
	if res.To.Terminal() {
		ev.Color = ColorSuccess
	}

	var lines []string
	if res.Order.ScheduledDate != nil {
		lines = append(lines, "Scheduled: "+res.Order.ScheduledDate.Format("Mon Jan 2"))
	}
	if cords := orderCordsLine(res); cords != "" {
		lines = append(lines, cords)
	}
	if !res.InventoryApplied {
		lines = append(lines, "No firewood inventory item found; stock not adjusted.")
		ev.Color = ColorWarning
	}
	for _, w := range res.Warnings {
		lines = append(lines, "Warning: "+w)
		ev.Color = ColorWarning
	}
	ev.Body = strings.Join(lines, "\n")
	return ev
}

func orderCordsLine(res *workorder.TransitionResult) string {
	if res.Order.IsPickup {
		if res.Order.PickupQuantityCords > 0 {
			return fmt.Sprintf("Pickup: %.2f cords", res.Order.PickupQuantityCords)
		}
		return ""
	}
	if res.Order.DeliverySizeCords > 0 {
		return fmt.Sprintf("Delivery: %.2f cords", res.Order.DeliverySizeCords)
	}
	return ""
}
