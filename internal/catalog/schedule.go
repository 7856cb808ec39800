package catalog

import (
    "context"
    "log"
    "time"
)

// StartWeekly runs the sync job once a week at the given local weekday
// and time until the context is cancelled.  It is meant to be launched
// in its own goroutine from main.  Each run gets its own timeout so a
// hung provider cannot stall the loop; failures are logged and the loop
// waits for the next occurrence.  Retry policy belongs to whoever
// triggers the job, not to the job itself.
func StartWeekly(ctx context.Context, s *Syncer, weekday time.Weekday, hour, minute int) {
    for {
        next := nextOccurrence(time.Now(), weekday, hour, minute)
        log.Printf("catalog-sync: next scheduled run at %s", next.Format(time.RFC3339))

        timer := time.NewTimer(time.Until(next))
        select {
        case <-ctx.Done():
            timer.Stop()
            return
        case <-timer.C:
        }

        runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
        sum, err := s.Run(runCtx)
        cancel()
        if err != nil {
            log.Printf("catalog-sync: scheduled run failed: %v", err)
            continue
        }
        log.Printf("catalog-sync: %s", sum)
    }
}

// nextOccurrence returns the first instant strictly after now that falls
// on the given weekday at hour:minute in now's location.
func nextOccurrence(now time.Time, weekday time.Weekday, hour, minute int) time.Time {
    t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
    days := (int(weekday) - int(now.Weekday()) + 7) % 7
    t = t.AddDate(0, 0, days)
    if !t.After(now) {
        t = t.AddDate(0, 0, 7)
    }
    return t
}
