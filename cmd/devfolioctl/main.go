package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vedran77/devfolio/internal/config"
	"github.com/vedran77/devfolio/internal/repository/chain"
	"github.com/vedran77/devfolio/internal/service"
	"github.com/vedran77/devfolio/internal/sui"
)

type options struct {
	network     string
	rpcURL      string
	dashboardID string
	aggregator  string
	output      string
	verbose     bool
	timeout     time.Duration
	maxAttempts uint
}

// app holds what the subcommands share once the root's pre-run has built it.
type app struct {
	opts      options
	logger    *zap.Logger
	directory *service.DirectoryService
	out       io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "devfolioctl",
		Short: "Query the devfolio on-chain developer directory",
		Long: `devfolioctl reads verified developer profiles, their project showcases and
certificates straight from a Sui full node.

Examples:
  devfolioctl profiles
  devfolioctl profile --username alice
  devfolioctl projects -o json
  devfolioctl voted 0x12ab... 0x9f3c...`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.OutOrStdout())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.opts.network, "network", "n", "testnet", "network preset (testnet, mainnet)")
	f.StringVar(&a.opts.rpcURL, "rpc", "", "override the full node JSON-RPC URL")
	f.StringVar(&a.opts.dashboardID, "dashboard", "", "override the dashboard object id")
	f.StringVar(&a.opts.aggregator, "aggregator", "", "override the Walrus aggregator URL")
	f.StringVarP(&a.opts.output, "output", "o", "table", "output format (table, json)")
	f.BoolVarP(&a.opts.verbose, "verbose", "v", false, "log RPC retries and debug output")
	f.DurationVar(&a.opts.timeout, "timeout", 15*time.Second, "per-request timeout")
	f.UintVar(&a.opts.maxAttempts, "max-attempts", 4, "attempts per read request")

	root.AddCommand(
		a.dashboardCmd(),
		a.profilesCmd(),
		a.profileCmd(),
		a.projectsCmd(),
		a.certificatesCmd(),
		a.votedCmd(),
	)
	return root
}

func (a *app) init(out io.Writer) error {
	if a.opts.output != "table" && a.opts.output != "json" {
		return fmt.Errorf("unknown output format %q", a.opts.output)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.opts.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	networks, err := config.DefaultNetworks()
	if err != nil {
		return err
	}
	net, ok := networks[a.opts.network]
	if !ok {
		return fmt.Errorf("unknown network %q", a.opts.network)
	}
	if a.opts.rpcURL != "" {
		net.RPCURL = a.opts.rpcURL
	}
	if a.opts.dashboardID != "" {
		net.DashboardID = a.opts.dashboardID
	}
	if a.opts.aggregator != "" {
		net.AggregatorURL = a.opts.aggregator
	}

	client := sui.New(sui.Options{
		URL:     net.RPCURL,
		Timeout: a.opts.timeout,
		Retry: sui.RetryPolicy{
			MaxAttempts:     a.opts.maxAttempts,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     3 * time.Second,
		},
	}, logger.Named("sui"))
	repo := chain.NewDirectoryRepo(client, net.DashboardID, logger.Named("directory"))
	a.directory = service.NewDirectoryService(repo, net.AggregatorURL, logger)
	a.out = out
	return nil
}
