// Command console is the terminal client for the taskhive API. It keeps a
// persisted session under the user config dir and runs the same gate the
// desktop client runs: a fixed five-day window from login plus a remote
// account liveness check.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskhive/taskhive/internal/apiclient"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/gate"
	"github.com/taskhive/taskhive/internal/roles"
	"github.com/taskhive/taskhive/internal/session"
	"github.com/taskhive/taskhive/pkg/logger"
)

type app struct {
	cfg    *config.Config
	store  session.Store
	client *apiclient.Client
	gate   *gate.Gate
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	path := cfg.Session.StorePath
	if path == "" {
		path, err = session.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store := session.NewFileStore(path)
	client := apiclient.New(cfg.Session.ServerURL)
	g := gate.New(store, client, gate.Options{
		MaxAge: cfg.Session.MaxAge,
		Strict: cfg.Session.Strict,
	})
	return &app{cfg: cfg, store: store, client: client, gate: g}, nil
}

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "console",
		Short:         "taskhive terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.statusCmd(),
		a.whoamiCmd(),
		a.openCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) loginCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				fmt.Print("Username: ")
				if _, err := fmt.Scanln(&username); err != nil {
					return err
				}
			}
			fmt.Print("Password: ")
			pw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			lr, err := a.client.Login(ctx, username, string(pw))
			if err != nil {
				if apiclient.IsUnauthorized(err) {
					return fmt.Errorf("authentication failed")
				}
				return err
			}
			s := session.FromLogin(lr, time.Now())
			if err := a.store.Set(s); err != nil {
				return err
			}
			fmt.Printf("Signed in as %s (%s)\n", s.Username, s.Role)
			fmt.Printf("Landing: %s\n", s.Role.Landing())
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username to sign in with")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and remove the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store.Get()
			if err != nil {
				return err
			}
			if s != nil {
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				defer cancel()
				if err := a.client.Logout(ctx, s.TokenType, s.AccessToken); err != nil {
					logger.Warnf("server signout failed: %v", err)
				}
			}
			if err := a.gate.Terminate(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the persisted session is still usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			st, err := a.gate.Evaluate(ctx)
			if err != nil {
				return err
			}
			if msg := a.gate.Message(); msg != "" {
				fmt.Println(msg)
				a.gate.Dismiss()
			}
			if !st.Authenticated {
				fmt.Println("Not signed in.")
				return nil
			}
			fmt.Printf("Signed in with role %s\n", st.Role)
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the persisted session profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store.Get()
			if err != nil {
				return err
			}
			if s == nil {
				fmt.Println("Not signed in.")
				return nil
			}
			fmt.Printf("Username:  %s\n", s.Username)
			fmt.Printf("Full name: %s\n", s.FullName)
			fmt.Printf("Email:     %s\n", s.Email)
			fmt.Printf("Role:      %s\n", s.Role)
			fmt.Printf("Signed in: %s\n", s.LoginTime().Local().Format(time.RFC1123))
			return nil
		},
	}
}

// openCmd resolves a path the way the browser client routes: a mismatch
// never errors, it reports where the caller would be redirected.
func (a *app) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Resolve a navigation path against the current role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			st, err := a.gate.Evaluate(ctx)
			if err != nil {
				return err
			}
			var role roles.Role
			if st.Authenticated {
				role = st.Role
			}
			out := roles.ResolvePath(role, args[0])
			if out.Allowed {
				fmt.Printf("Open %s\n", args[0])
				return nil
			}
			fmt.Printf("Redirected to %s\n", out.Redirect)
			return nil
		},
	}
}
