package workers

import (
	"context"
	"log"
	"time"
)

// StartReminderWorker calls send every interval until ctx is cancelled. The
// first run happens right away. Each run gets its own five minute deadline.
// A non-positive interval disables the worker.
func StartReminderWorker(ctx context.Context, interval time.Duration, send func(context.Context) (int, error)) {
	if interval <= 0 {
		log.Printf("Reminder worker: disabled, invalid interval %s", interval)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Reminder worker: started, interval %s", interval)

	for {
		runOnce(ctx, send)

		select {
		case <-ctx.Done():
			log.Println("Reminder worker: stopped")
			return
		case <-ticker.C:
		}
	}
}

func runOnce(ctx context.Context, send func(context.Context) (int, error)) {
	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	sent, err := send(runCtx)
	if err != nil {
		log.Printf("Reminder worker: run failed after %d reminder(s): %v", sent, err)
		return
	}
	if sent > 0 {
		log.Printf("Reminder worker: sent %d streak reminder(s)", sent)
	}
}
