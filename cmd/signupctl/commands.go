package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/haguru/signup/config"
	"github.com/haguru/signup/internal/client"
	"github.com/haguru/signup/internal/form"
	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/pkg/zerolog"

	"github.com/spf13/cobra"
)

const (
	defaultServer       = "http://localhost:8080"
	defaultCheckTimeout = 5 * time.Second
)

// options are the flags shared by every command.
type options struct {
	configPath string
	server     string
	timeout    time.Duration
	logLevel   string
}

// signupFlags are the form fields of the signup command.
type signupFlags struct {
	id              string
	password        string
	passwordConfirm string
	name            string
	email           string
	terms           bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "signupctl",
		Short:         "Check IDs and sign up against a signup service",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.CONFIG_PATH, "service config file providing client defaults")
	root.PersistentFlags().StringVar(&opts.server, "server", "", "base URL of the signup service (overrides config)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "ID check timeout (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newCheckCmd(opts), newSignupCmd(opts))
	return root
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <id>",
		Short: "Ask the service whether an ID is still available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if err := session.dispatch(ctx, form.ElementIdentifier, form.EventInput, args[0]); err != nil {
				return err
			}
			if err := session.dispatch(ctx, form.ElementCheckButton, form.EventClick, ""); err != nil {
				return err
			}
			if session.controller.Verification() != form.Verified {
				return fmt.Errorf("id %q is not available", args[0])
			}
			return nil
		},
	}
}

func newSignupCmd(opts *options) *cobra.Command {
	flags := &signupFlags{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Fill in the signup form, check the ID and submit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			return session.signup(cmd.Context(), flags)
		},
	}
	cmd.Flags().StringVar(&flags.id, "id", "", "account ID")
	cmd.Flags().StringVar(&flags.password, "password", "", "password")
	cmd.Flags().StringVar(&flags.passwordConfirm, "password-confirm", "", "password confirmation")
	cmd.Flags().StringVar(&flags.name, "name", "", "display name")
	cmd.Flags().StringVar(&flags.email, "email", "", "email address")
	cmd.Flags().BoolVar(&flags.terms, "terms", false, "accept the terms of service")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// session is one form page: a controller bound to a terminal view and a
// client whose cookie jar carries the checked-id marker to /signup.
type session struct {
	controller *form.Controller
	client     *client.Client
	view       *terminalView
	logger     interfaces.Logger
}

func newSession(cmd *cobra.Command, opts *options) (*session, error) {
	logger := zerolog.NewZerologLoggerWithWriter(cmd.ErrOrStderr(), "signupctl")
	logger.SetLevel(opts.logLevel)

	server, timeout, err := resolveClientConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	c, err := client.New(server, timeout, logger)
	if err != nil {
		return nil, err
	}
	view := newTerminalView(cmd.OutOrStdout())
	return &session{
		controller: form.NewController(c, view, logger, timeout),
		client:     c,
		view:       view,
		logger:     logger,
	}, nil
}

// resolveClientConfig layers flags over the config file over built-in
// defaults. A missing default config file is not an error.
func resolveClientConfig(cmd *cobra.Command, opts *options) (string, time.Duration, error) {
	server, timeout := defaultServer, defaultCheckTimeout

	cfg, err := config.ReadLocalConfig(opts.configPath)
	switch {
	case err == nil:
		if cfg.Client.BaseURL != "" {
			server = cfg.Client.BaseURL
		}
		if cfg.Client.CheckTimeout > 0 {
			timeout = cfg.Client.CheckTimeout
		}
	case errors.Is(err, fs.ErrNotExist) && !flagChanged(cmd, "config"):
	default:
		return "", 0, fmt.Errorf("failed to read config %s: %w", opts.configPath, err)
	}

	if opts.server != "" {
		server = opts.server
	}
	if opts.timeout > 0 {
		timeout = opts.timeout
	}
	return server, timeout, nil
}

func (s *session) dispatch(ctx context.Context, element form.Element, eventType form.EventType, value string) error {
	err := s.controller.Dispatch(ctx, form.Event{Element: element, Type: eventType, Value: value})
	var netErr *form.NetworkError
	var serverErr *form.ServerError
	if errors.As(err, &netErr) || errors.As(err, &serverErr) {
		// The view already shows the failure; report the cause too.
		return fmt.Errorf("id check failed: %w", err)
	}
	return err
}

// signup replays the form the way a user fills it in, then submits once
// the controller enables the button.
func (s *session) signup(ctx context.Context, flags *signupFlags) error {
	terms := "off"
	if flags.terms {
		terms = "on"
	}
	events := []form.Event{
		{Element: form.ElementIdentifier, Type: form.EventInput, Value: flags.id},
		{Element: form.ElementCheckButton, Type: form.EventClick},
		{Element: form.ElementPassword, Type: form.EventInput, Value: flags.password},
		{Element: form.ElementPasswordCheck, Type: form.EventInput, Value: flags.passwordConfirm},
		{Element: form.ElementName, Type: form.EventInput, Value: flags.name},
		{Element: form.ElementEmail, Type: form.EventInput, Value: flags.email},
		{Element: form.ElementTerms, Type: form.EventChange, Value: terms},
	}
	for _, event := range events {
		if err := s.dispatch(ctx, event.Element, event.Type, event.Value); err != nil {
			return err
		}
	}

	if !s.view.SubmitEnabled() {
		err := form.Validate(s.controller.State())
		s.view.Printf("signup button disabled: %v\n", err)
		return err
	}

	resp, err := s.client.Signup(ctx, s.controller.State())
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	s.view.Printf("%s\n", resp.Message)
	return nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}
