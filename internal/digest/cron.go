package digest

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/firewoodbank/fwb/internal/notify"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the duration
// until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// Run posts the daily and weekly digests on their cron schedules until ctx
// is cancelled. Build and send failures are logged; the loop keeps going.
func Run(ctx context.Context, db *gorm.DB, sender notify.Sender, dailyExpr, weeklyExpr string) {
	go loop(ctx, dailyExpr, func() { post(ctx, db, sender, BuildDaily) })
	loop(ctx, weeklyExpr, func() { post(ctx, db, sender, BuildWeekly) })
}

// loop fires fn on the cron schedule until ctx is done.
func loop(ctx context.Context, expr string, fn func()) {
	for {
		d := nextCronDuration(expr)
		if d == 0 {
			log.Printf("digest: invalid cron expression %q; schedule disabled", expr)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(d):
			fn()
		}
	}
}

func post(ctx context.Context, db *gorm.DB, sender notify.Sender, build func(*gorm.DB) (*notify.Event, error)) {
	ev, err := build(db)
	if err != nil {
		log.Printf("digest: build failed: %v", err)
		return
	}
	if ev == nil || sender == nil {
		return
	}
	if err := sender.Send(ctx, *ev); err != nil {
		log.Printf("digest: send failed: %v", err)
	}
}
