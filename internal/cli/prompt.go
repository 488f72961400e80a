// Package cli drives the interactive balance entry dialogue.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	portssvc "github.com/SscSPs/balance_updater/internal/core/ports/services"
	"github.com/SscSPs/balance_updater/internal/middleware"
	"github.com/SscSPs/balance_updater/internal/utils"
)

const (
	ExitOK    = 0
	ExitError = 1

	balanceUnavailable = "Error"
)

// Prompter reads balances from in and reports to out. It holds no state between runs.
type Prompter struct {
	balances   portssvc.BalanceSvcFacade
	in         *bufio.Scanner
	out        io.Writer
	operatorID string
}

// NewPrompter creates a Prompter submitting as operatorID.
func NewPrompter(balances portssvc.BalanceSvcFacade, in io.Reader, out io.Writer, operatorID string) *Prompter {
	return &Prompter{
		balances:   balances,
		in:         bufio.NewScanner(in),
		out:        out,
		operatorID: operatorID,
	}
}

// ShowCurrent prints the current balance line. Read failures print the error indicator
// and are reported through the returned bool.
func (p *Prompter) ShowCurrent(ctx context.Context) bool {
	current, err := p.balances.GetCurrentBalance(ctx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to read current balance",
			slog.String("error", err.Error()),
			slog.String("kind", string(apperrors.Kind(err))))
		fmt.Fprintf(p.out, "Current Balance: %s\n", balanceUnavailable)
		return false
	}
	fmt.Fprintf(p.out, "Current Balance: %s\n", utils.FormatCurrency(current.Amount))
	return true
}

// Submit records raw once and prints the outcome.
func (p *Prompter) Submit(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		fmt.Fprintln(p.out, "Please enter a balance.")
		return apperrors.ErrInvalidInput
	}

	record, err := p.balances.SubmitBalance(ctx, raw, p.operatorID)
	if err != nil {
		fmt.Fprintf(p.out, "Error updating database:\n%s\n", operatorMessage(err))
		return err
	}

	fmt.Fprintf(p.out, "Balance updated successfully! (%s recorded for %s)\n",
		utils.FormatCurrency(record.Amount), record.RecordDate.Format("2006-01-02"))
	return nil
}

// Run shows the current balance then prompts until one submission succeeds.
// It returns the process exit code: ExitOK after a successful write, ExitError when input ends first.
func (p *Prompter) Run(ctx context.Context) int {
	p.ShowCurrent(ctx)

	for {
		fmt.Fprint(p.out, "Enter NEW Balance: ")
		if !p.in.Scan() {
			fmt.Fprintln(p.out)
			if err := p.in.Err(); err != nil {
				middleware.GetLoggerFromCtx(ctx).Error("Failed to read input", slog.String("error", err.Error()))
			}
			return ExitError
		}
		if ctx.Err() != nil {
			return ExitError
		}

		if err := p.Submit(ctx, p.in.Text()); err == nil {
			return ExitOK
		}
	}
}

// operatorMessage is the text shown after "Error updating database:". Store failures keep
// their driver detail.
func operatorMessage(err error) string {
	if apperrors.Kind(err) == apperrors.KindDuplicateEntryForDay {
		return apperrors.ErrDuplicateEntryForDay.Error()
	}
	return err.Error()
}
