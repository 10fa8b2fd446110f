package main

import (
	"Mumkin/internal/service/notification"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func (c *cli) notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Read your notifications",
	}
	cmd.AddCommand(c.notificationsWatchCmd(), c.notificationsReadCmd())
	return cmd
}

func printInbox(out io.Writer, in notification.Inbox) {
	fmt.Fprintf(out, "%d unread\n", in.Unread)
	for _, n := range in.Items {
		mark := " "
		if !n.IsRead {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s  %s\n", mark, n.CreatedAt.Format("2006-01-02 15:04"), n.Message)
	}
}

func (c *cli) notificationsWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the inbox and reprint it whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := c.connect(ctx); err != nil {
				return err
			}
			user, err := c.signIn(ctx)
			if err != nil {
				return err
			}
			feed := c.deps.Notifications.Feed(user.UID)
			updates, cancel := feed.Inbox().Subscribe()
			defer cancel()

			errc := make(chan error, 1)
			go func() { errc <- feed.Run(ctx) }()
			for {
				select {
				case in := <-updates:
					printInbox(cmd.OutOrStdout(), in)
				case err := <-errc:
					return err
				}
			}
		},
	}
}

func (c *cli) notificationsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()
			ctx := cmd.Context()
			if err := c.connect(ctx); err != nil {
				return err
			}
			user, err := c.signIn(ctx)
			if err != nil {
				return err
			}
			feed := c.deps.Notifications.Feed(user.UID)
			if err := feed.Refresh(ctx); err != nil {
				return err
			}
			if err := feed.MarkAllRead(ctx); err != nil {
				return err
			}
			printInbox(cmd.OutOrStdout(), feed.Inbox().Get())
			return nil
		},
	}
}

