package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ifor-lux/luxconsole/internal/browser"
	"github.com/ifor-lux/luxconsole/internal/constants"
	"github.com/ifor-lux/luxconsole/internal/events"
	"github.com/ifor-lux/luxconsole/internal/util/paths"
)

// newWatchCmd creates the 'watch' command.
func newWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Watch a repository directory for changes",
		Long: `Watch a repository directory, re-fetching it on an interval and printing
the listing whenever it is refreshed. Runs until interrupted.

Example:
  luxconsole watch images --interval 10s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}
			client, err := getStoreClient()
			if err != nil {
				return err
			}
			ctx := GetContext()

			bus := events.NewBus(constants.EventBusDefaultBuffer)
			defer bus.Close()
			sub := bus.SubscribeAll()

			s := browser.NewSession(client, bus, GetLogger(),
				browser.WithRefreshInterval(interval))

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			if err := s.Refresh(ctx, true); err != nil {
				return fmt.Errorf("initial fetch: %s", s.Err())
			}
			for _, seg := range paths.Split(strings.Trim(dir, "/")) {
				if err := s.Enter(ctx, seg); err != nil {
					return fmt.Errorf("entering %s: %s", seg, s.Err())
				}
			}

			go s.Run(ctx)

			fmt.Printf("Watching /%s every %s (Ctrl+C to stop)\n", s.PathString(), interval)
			printListing(s)

			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-sub:
					if !ok {
						return nil
					}
					switch ev.Type() {
					case events.EventListingRefreshed:
						printListing(s)
					case events.EventError:
						if errEv, ok := ev.(events.ErrorEvent); ok {
							fmt.Printf("[%s] error: %s\n",
								ev.Timestamp().Format("15:04:05"), errEv.Message)
						}
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Refresh interval")
	return cmd
}

func printListing(s *browser.Session) {
	items := s.Listing()
	fmt.Printf("[%s] /%s: %d entries\n",
		time.Now().Format("15:04:05"), s.PathString(), len(items))
	for _, it := range items {
		marker := " "
		if it.IsDir() {
			marker = "/"
		}
		fmt.Printf("  %s%s\n", it.Name, marker)
	}
}
