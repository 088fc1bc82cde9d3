package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mbellec/bocage/internal/cli"
	"github.com/mbellec/bocage/internal/common"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the backend session",
		Long:  `Sign in and out of the campaign backend, and inspect the current session.`,
	}

	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authLogoutCmd())
	cmd.AddCommand(authStatusCmd())

	return cmd
}

func authLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		RunE:  runAuthLogin,
	}

	cmd.Flags().String("email", "", "Account email (prompted if omitted)")
	cmd.Flags().String("password", "", "Account password (prompted if omitted)")

	return cmd
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
	}

	if err := b.identity.SignIn(ctx, email, password); err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Signed in as %s", email)))
	return nil
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			if err := b.identity.SignOut(cmd.Context()); err != nil {
				return err
			}
			slog.Info(cli.FormatSuccess("Signed out"))
			return nil
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			actor, err := b.identity.CurrentActor(cmd.Context())
			if err != nil {
				if errors.Is(err, common.ErrUnauthenticated) {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Not signed in"))
					return nil
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Signed in as %s", actor)))
			return nil
		},
	}
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
