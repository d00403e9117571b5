// Package cli provides app update publishing commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ifor-lux/luxconsole/internal/realtime"
)

// newUpdateCmd creates the 'update' command group.
func newUpdateCmd() *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Manage the published app update",
	}

	updateCmd.AddCommand(newUpdatePublishCmd())
	updateCmd.AddCommand(newUpdateShowCmd())
	return updateCmd
}

// newUpdatePublishCmd creates the 'update publish' command.
func newUpdatePublishCmd() *cobra.Command {
	var description string
	var link string

	cmd := &cobra.Command{
		Use:   "publish <title> <version>",
		Short: "Publish an app update announcement",
		Long: `Publish the update record every client device checks at startup.
There is a single record; publishing replaces the previous one.

Example:
  luxconsole update publish "Spring release" 2.1.0 \
    --description "Faster downloads and bug fixes." \
    --link https://example.com/app-2.1.0.apk`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getRealtimeClient()
			if err != nil {
				return err
			}

			u, err := realtime.NewAppUpdate(args[0], description, args[1], link)
			if err != nil {
				return err
			}

			if err := client.PublishUpdate(GetContext(), u); err != nil {
				return fmt.Errorf("publishing update: %w", err)
			}
			fmt.Printf("✓ Published update %s\n", u.Version)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Update description (required)")
	cmd.Flags().StringVar(&link, "link", "", "Download link (required)")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("link")
	return cmd
}

// newUpdateShowCmd creates the 'update show' command.
func newUpdateShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the currently published update",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getRealtimeClient()
			if err != nil {
				return err
			}

			u, err := client.CurrentUpdate(GetContext())
			if err != nil {
				return fmt.Errorf("reading update: %w", err)
			}
			if u == nil {
				fmt.Println("No update published.")
				return nil
			}

			fmt.Printf("Version:     %s\n", u.Version)
			fmt.Printf("Title:       %s\n", u.Title)
			fmt.Printf("Description: %s\n", u.Description)
			fmt.Printf("Link:        %s\n", u.DownloadLink)
			fmt.Printf("Published:   %s\n", u.Timestamp)
			fmt.Printf("Active:      %v\n", u.Active)
			return nil
		},
	}
	return cmd
}
