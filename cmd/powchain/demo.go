package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/renproject/powchain/ledger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// A transfer of value between two addresses, as given on the command line.
type transfer struct {
	from  string
	to    string
	value uint64
}

// parseTransfer parses a transfer of the form "from:to:value".
func parseTransfer(s string) (transfer, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return transfer{}, fmt.Errorf("expected from:to:value, got %q", s)
	}
	if parts[0] == "" || parts[1] == "" {
		return transfer{}, fmt.Errorf("expected non-empty addresses, got %q", s)
	}
	value, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return transfer{}, fmt.Errorf("parsing value of %q: %w", s, err)
	}
	return transfer{from: parts[0], to: parts[1], value: value}, nil
}

// envString returns the value of the environment variable, or the fallback if
// it is not set.
func envString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// envInt returns the integer value of the environment variable, or the
// fallback if it is not set or not an integer.
func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(envString(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

type demoFlags struct {
	miner       string
	difficulty  int
	workers     int
	maxAttempts int64
	logLevel    string
	transfers   []string
}

func (flags demoFlags) options() (ledger.Options, error) {
	level, err := logrus.ParseLevel(flags.logLevel)
	if err != nil {
		return ledger.Options{}, err
	}
	opts := ledger.DefaultOptions().
		WithLogLevel(level).
		WithSkipInitialMining(true)
	opts = opts.WithSealerOptions(opts.SealerOpts.
		WithDifficulty(flags.difficulty).
		WithWorkers(flags.workers).
		WithMaxAttempts(flags.maxAttempts))
	return opts, nil
}

func newDemoCmd() *cobra.Command {
	flags := demoFlags{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Submit transfers, mine them into a block, and print the chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			return runDemo(ctx, cmd.OutOrStdout(), flags)
		},
	}
	cmd.Flags().StringVar(&flags.miner, "miner", envString("POWCHAIN_MINER", "M"), "address credited with mining rewards")
	cmd.Flags().IntVar(&flags.difficulty, "difficulty", envInt("POWCHAIN_DIFFICULTY", 5), "number of leading zero hex digits of a sealed block hash")
	cmd.Flags().IntVar(&flags.workers, "workers", envInt("POWCHAIN_WORKERS", 1), "number of goroutines searching for a nonce")
	cmd.Flags().Int64Var(&flags.maxAttempts, "max-attempts", 0, "maximum number of nonces to try per block (0 for unbounded)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "log level of the ledger")
	cmd.Flags().StringArrayVar(&flags.transfers, "transfer", []string{"A:B:10"}, "transfer to submit, as from:to:value (repeatable)")
	return cmd
}

// runDemo writes the dump of the chain to w. Everything else is printed
// through pterm.
func runDemo(ctx context.Context, w io.Writer, flags demoFlags) error {
	opts, err := flags.options()
	if err != nil {
		return err
	}
	l, err := ledger.New(ctx, opts, flags.miner)
	if err != nil {
		return err
	}

	pterm.DefaultHeader.WithFullWidth().Println("powchain")
	for _, s := range flags.transfers {
		t, err := parseTransfer(s)
		if err != nil {
			return err
		}
		if err := l.Submit([]byte(t.from), []byte(t.to), t.value); err != nil {
			return err
		}
		pterm.Info.Printfln("submitted %v from %v to %v", t.value, t.from, t.to)
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Mining with difficulty %d ...", l.Difficulty()))
	if err := l.Mine(ctx); err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(fmt.Sprintf("Mined block %v", l.LastBlock().Hash()))

	if err := l.Verify(); err != nil {
		return err
	}
	pterm.DefaultSection.Println("Chain")
	if err := l.Dump(w); err != nil {
		return err
	}

	balances, err := l.Balances()
	if err != nil {
		return err
	}
	pterm.DefaultSection.Println("Balances")
	return pterm.DefaultTable.WithHasHeader().WithData(balanceTable(balances)).Render()
}

// balanceTable returns the rows of the balance table, sorted by address.
func balanceTable(balances map[string]int64) pterm.TableData {
	addresses := make([]string, 0, len(balances))
	for address := range balances {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	data := pterm.TableData{{"Address", "Balance"}}
	for _, address := range addresses {
		data = append(data, []string{address, strconv.FormatInt(balances[address], 10)})
	}
	return data
}
