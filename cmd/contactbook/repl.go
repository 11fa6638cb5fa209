package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"contactbook/internal/contact/command"
	"contactbook/pkg/requestcontext"
)

func newREPLCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive assistant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}
}

func newBirthdaysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "birthdays",
		Short: "Print the birthdays of the coming week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			reply, _ := command.New(a.svc, command.WithLogger(a.logger)).Execute(ctx, "birthdays", nil)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return err
		},
	}
}

func runREPL(cmd *cobra.Command, opts *rootOptions) error {
	ctx, a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()

	d := command.New(a.svc, command.WithLogger(a.logger))
	runErr := d.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	if err := a.save(ctx); err != nil {
		return err
	}
	return runErr
}

// setup resolves configuration, pins today when asked and builds the app.
func setup(cmd *cobra.Command, opts *rootOptions) (context.Context, *app, error) {
	cfg, err := opts.config()
	if err != nil {
		return nil, nil, err
	}
	today, err := opts.pinnedToday()
	if err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !today.IsZero() {
		ctx = requestcontext.WithTime(ctx, today)
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ctx, a, nil
}
