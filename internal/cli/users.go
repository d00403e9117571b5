// Package cli provides end-user account commands.
package cli

import (
	"fmt"
	"time"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ifor-lux/luxconsole/internal/realtime"
)

// newUsersCmd creates the 'users' command group.
func newUsersCmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage end-user accounts",
		Long:  `Commands for the app's end-user account records in the realtime database.`,
	}

	usersCmd.AddCommand(newUsersAddCmd())
	usersCmd.AddCommand(newUsersListCmd())
	usersCmd.AddCommand(newUsersUpdateCmd())
	usersCmd.AddCommand(newUsersRemoveCmd())

	return usersCmd
}

// newUsersAddCmd creates the 'users add' command.
func newUsersAddCmd() *cobra.Command {
	var password string
	var days int
	var generate bool

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Long: `Create an end-user account that expires after a number of days.

Examples:
  # 30-day account with an explicit password
  luxconsole users add alice --password s3cret --days 30

  # Generate a random password
  luxconsole users add bob --generate --days 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getRealtimeClient()
			if err != nil {
				return err
			}

			if generate {
				password, err = realtime.GeneratePassword()
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = promptSecret("Password")
				if err != nil {
					return err
				}
			}

			user, err := client.CreateUser(GetContext(), args[0], password, days)
			if err != nil {
				return fmt.Errorf("creating user: %w", err)
			}

			fmt.Printf("✓ Created %s (id %s)\n", user.Username, user.ID)
			fmt.Printf("  Password: %s\n", user.Password)
			fmt.Printf("  Expires:  %s\n", user.ExpirationDate)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	cmd.Flags().IntVar(&days, "days", 30, "Days until the account expires")
	cmd.Flags().BoolVar(&generate, "generate", false, "Generate a random password")
	return cmd
}

// newUsersListCmd creates the 'users list' command.
func newUsersListCmd() *cobra.Command {
	var showExpired bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getRealtimeClient()
			if err != nil {
				return err
			}

			users, err := client.ListUsers(GetContext())
			if err != nil {
				return fmt.Errorf("listing users: %w", err)
			}

			now := time.Now()
			tbl := table.New("ID", "USERNAME", "DEVICE", "EXPIRES", "STATUS")
			shown := 0
			for _, u := range users {
				expired := u.Expired(now)
				if expired && !showExpired {
					continue
				}
				status := "active"
				if expired {
					status = "expired"
				}
				device := u.Device
				if device == "" {
					device = "-"
				}
				tbl.AddRow(u.ID, u.Username, device, u.ExpirationDate, status)
				shown++
			}
			tbl.Print()
			fmt.Printf("\n%d of %d accounts\n", shown, len(users))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showExpired, "expired", false, "Include expired accounts")
	return cmd
}

// newUsersUpdateCmd creates the 'users update' command.
func newUsersUpdateCmd() *cobra.Command {
	var username string
	var password string
	var days int

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account's credentials and expiration",
		Long: `Update an account. The device assignment is owned by the client app and
is never touched.

Example:
  luxconsole users update -Nabc123 --username alice --password newpass --days 60`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getRealtimeClient()
			if err != nil {
				return err
			}

			expiration := time.Now().AddDate(0, 0, days)
			if err := client.UpdateUser(GetContext(), args[0], username, password, expiration); err != nil {
				return fmt.Errorf("updating user: %w", err)
			}
			fmt.Printf("✓ Updated %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "New username")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	cmd.Flags().IntVar(&days, "days", 30, "Days until the account expires, from now")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// newUsersRemoveCmd creates the 'users rm' command.
func newUsersRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getRealtimeClient()
			if err != nil {
				return err
			}

			if !force && !confirm(fmt.Sprintf("Delete account %s?", args[0])) {
				fmt.Println("Aborted.")
				return nil
			}

			if err := client.DeleteUser(GetContext(), args[0]); err != nil {
				return fmt.Errorf("deleting user: %w", err)
			}
			fmt.Printf("✓ Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}
