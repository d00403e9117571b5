// Package cli provides notification broadcast commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ifor-lux/luxconsole/internal/realtime"
)

// newNotifyCmd creates the 'notify' command group.
func newNotifyCmd() *cobra.Command {
	notifyCmd := &cobra.Command{
		Use:   "notify",
		Short: "Send notifications to client devices",
	}

	notifyCmd.AddCommand(newNotifySendCmd())
	return notifyCmd
}

// newNotifySendCmd creates the 'notify send' command.
func newNotifySendCmd() *cobra.Command {
	var description string
	var image string
	var inApp bool
	var always bool

	cmd := &cobra.Command{
		Use:   "send <title>",
		Short: "Broadcast a notification",
		Long: `Broadcast a push notification or an in-app message.

Push notifications are delivered once. In-app messages can show once or on
every app start (--always). The frequency flag has no effect on push.

Examples:
  # Push notification
  luxconsole notify send "Maintenance tonight" --description "Service pauses at 22:00 UTC."

  # Persistent in-app message
  luxconsole notify send "New catalog" --description "Browse the new file catalog." --in-app --always`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getRealtimeClient()
			if err != nil {
				return err
			}

			typ := realtime.NotificationPush
			if inApp {
				typ = realtime.NotificationInApp
			}
			frequency := realtime.FrequencyOnce
			if always {
				frequency = realtime.FrequencyAlways
			}

			n, err := realtime.NewNotification(args[0], description, image, typ, frequency)
			if err != nil {
				return err
			}

			key, err := client.SendNotification(GetContext(), n)
			if err != nil {
				return fmt.Errorf("sending notification: %w", err)
			}

			kind := "push notification"
			if inApp {
				kind = "in-app message"
			}
			fmt.Printf("✓ Sent %s %q (key %s, frequency %s)\n", kind, n.Title, key, n.Frequency)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Notification body (required, min 10 characters)")
	cmd.Flags().StringVar(&image, "image", "", "Optional image URL")
	cmd.Flags().BoolVar(&inApp, "in-app", false, "Send as in-app message instead of push")
	cmd.Flags().BoolVar(&always, "always", false, "Show the in-app message on every app start")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}
