package sheet

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// StartRefresher runs fn on the cron schedule spec until the returned cron
// is stopped. Overlapping runs are skipped.
func StartRefresher(spec string, fn func()) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, fn); err != nil {
		return nil, fmt.Errorf("invalid sheet refresh schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
