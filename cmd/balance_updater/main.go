package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SscSPs/balance_updater/internal/cli"
	"github.com/SscSPs/balance_updater/internal/core/services"
	"github.com/SscSPs/balance_updater/internal/events"
	"github.com/SscSPs/balance_updater/internal/middleware"
	"github.com/SscSPs/balance_updater/internal/platform/config"
	"github.com/SscSPs/balance_updater/internal/repositories"
	"github.com/SscSPs/balance_updater/internal/utils"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("balance_updater", pflag.ContinueOnError)
	amount := flags.String("amount", "", "submit this balance without prompting")
	showOnly := flags.Bool("show", false, "print the current balance and exit")
	hashPassword := flags.Bool("hash-password", false, "read a password from stdin and print its bcrypt hash")
	flags.String("db-driver", "", "storage backend (postgres|sqlite)")
	flags.String("pgsql-url", "", "postgres connection URL")
	flags.String("sqlite-path", "", "sqlite database file")
	flags.String("account-name", "", "account the balance belongs to")
	flags.String("timezone", "", "IANA zone deciding the calendar day")
	flags.String("log-level", "", "debug|info|warn|error")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return cli.ExitOK
		}
		return cli.ExitError
	}

	if *hashPassword {
		return printPasswordHash()
	}

	cfg, err := config.LoadConfigWithFlags(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitError
	}

	// stdout is the operator dialogue; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", slog.String("error", err.Error()))
		return cli.ExitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = middleware.WithLogger(ctx, logger.With(slog.String("operator_id", cfg.OperatorUsername)))

	// Opened on first use, so an unreachable store still reaches the prompt.
	repos := repositories.OpenLazy(cfg, logger)
	defer repos.Close()

	publisher, err := events.NewPublisher(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize event publisher", slog.String("error", err.Error()))
		return cli.ExitError
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", slog.String("error", err.Error()))
		}
	}()

	container := services.NewServiceContainer(cfg, repos, publisher)
	prompter := cli.NewPrompter(container.Balance, os.Stdin, os.Stdout, cfg.OperatorUsername)

	switch {
	case *showOnly:
		if !prompter.ShowCurrent(ctx) {
			return cli.ExitError
		}
		return cli.ExitOK
	case flags.Changed("amount"):
		prompter.ShowCurrent(ctx)
		if err := prompter.Submit(ctx, *amount); err != nil {
			return cli.ExitError
		}
		return cli.ExitOK
	default:
		return prompter.Run(ctx)
	}
}

func printPasswordHash() int {
	fmt.Fprint(os.Stderr, "Password: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		fmt.Fprintln(os.Stderr, "no password given")
		return cli.ExitError
	}
	password := strings.TrimRight(scanner.Text(), "\r")
	hash, err := utils.HashOperatorPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.ExitError
	}
	fmt.Println(hash)
	return cli.ExitOK
}
