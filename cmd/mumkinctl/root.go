package main

import (
	"Mumkin/internal/app"
	"Mumkin/internal/config"
	"Mumkin/internal/models"
	"Mumkin/internal/session"
	"Mumkin/pkg/logger"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type cli struct {
	configPath string
	env        string
	email      string
	password   string

	log  *logger.Logger
	deps *app.Deps
	sess *session.Session
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "mumkinctl",
		Short:        "Manage the Mumkin course catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if c.configPath == "" {
				c.configPath = os.Getenv("CONFIG_PATH")
			}
			if c.email == "" {
				c.email = os.Getenv("MUMKIN_EMAIL")
			}
			if c.password == "" {
				c.password = os.Getenv("MUMKIN_PASSWORD")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $CONFIG_PATH)")
	root.PersistentFlags().StringVar(&c.env, "log-env", "prod", "logger preset: local, dev or prod")
	root.PersistentFlags().StringVar(&c.email, "email", "", "account email (default $MUMKIN_EMAIL)")
	root.PersistentFlags().StringVar(&c.password, "password", "", "account password (default $MUMKIN_PASSWORD)")

	root.AddCommand(c.coursesCmd(), c.notificationsCmd())
	return root
}

// connect wires the core against the configured backends and loads the
// catalog once.
func (c *cli) connect(ctx context.Context) error {
	if c.configPath == "" {
		return errors.New("no config: pass --config or set CONFIG_PATH")
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.log = logger.New(c.env)
	c.deps, err = app.NewDeps(ctx, cfg, c.log)
	if err != nil {
		return err
	}
	return c.deps.Courses.FetchAll(ctx)
}

// signIn starts the identity session and waits for the resolved user.
func (c *cli) signIn(ctx context.Context) (*models.AppUser, error) {
	if c.email == "" || c.password == "" {
		return nil, errors.New("credentials required: pass --email and --password or set MUMKIN_EMAIL and MUMKIN_PASSWORD")
	}
	c.sess = session.New(c.log, c.deps.Auth, c.deps.Resolver)
	go c.sess.Run(ctx)
	if err := c.sess.SignInWithPassword(ctx, c.email, c.password); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.sess.Await(waitCtx)
}

func (c *cli) close() {
	if c.deps != nil {
		c.deps.Close()
	}
	if c.log != nil {
		_ = c.log.Sync()
	}
}
