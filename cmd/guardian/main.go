package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chain-guardian/pkg/config"
	"github.com/chain-guardian/pkg/dashboard"
	"github.com/chain-guardian/pkg/format"
	"github.com/chain-guardian/pkg/monitor"
	"github.com/chain-guardian/pkg/tui"
	"github.com/chain-guardian/pkg/upstream"
	"github.com/chain-guardian/pkg/wallet"
)

func main() {
	once := flag.Bool("once", false, "fetch one snapshot, print a report and exit")
	ui := flag.Bool("tui", false, "run the terminal dashboard next to the web dashboard")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		setupLogger(os.Stderr, "info", "console")
		log.Fatal().Err(err).Msg("config load failed")
	}

	logOut := io.Writer(os.Stderr)
	if *ui {
		// the terminal UI owns the screen
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			setupLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			log.Fatal().Err(err).Str("file", cfg.LogFile).Msg("open log file failed")
		}
		defer f.Close()
		logOut = f
	}
	setupLogger(logOut, cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	log.Info().Str("env", string(cfg.Env)).Str("api", cfg.APIURL).Msg("🛡  ChainGuardian starting...")

	client := upstream.New(cfg.APIURL, cfg.TxLimit, cfg.AlertLimit, &http.Client{Timeout: cfg.RequestTimeout})
	mon := monitor.New(client, cfg.PollInterval, cfg.RequestTimeout)

	if *once {
		os.Exit(runOnce(mon, os.Stdout))
	}

	conn, err := wallet.NewConnector(cfg.WalletAccount, cfg.ChainID, cfg.WalletConnectDelay)
	if err != nil {
		log.Fatal().Err(err).Msg("wallet init failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigCh; log.Info().Msg("shutting down..."); cancel() }()

	errCh := make(chan error, 3)
	go func() { errCh <- mon.Run(ctx) }()

	dash := dashboard.New(mon, conn, cfg.DashboardPort)
	go func() { errCh <- dash.Run(ctx) }()

	if *ui {
		model, unsubscribe := tui.NewModel(mon, conn)
		go func() {
			defer unsubscribe()
			_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				err = nil
			}
			cancel()
			errCh <- err
		}()
	} else {
		printSummary(os.Stdout, cfg)
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("error")
		}
	}
	cancel()
	log.Info().Msg("goodbye 👋")
}

func setupLogger(w io.Writer, level, logFormat string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if logFormat == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: w != os.Stderr}).With().Timestamp().Logger()
}

func printSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "\n"+strings.Repeat("═", 60))
	fmt.Fprintln(w, "  🛡  "+bold("CHAINGUARDIAN AI - RUNNING"))
	fmt.Fprintln(w, strings.Repeat("═", 60))
	fmt.Fprintf(w, "  Env:       %s\n", cfg.Env)
	fmt.Fprintf(w, "  API:       %s\n", cfg.APIURL)
	fmt.Fprintf(w, "  Polling:   every %s (timeout %s)\n", cfg.PollInterval, cfg.RequestTimeout)
	fmt.Fprintf(w, "  Dashboard: http://localhost:%d\n", cfg.DashboardPort)
	fmt.Fprintf(w, "  Wallet:    %s on chain %d\n", format.Checksum(cfg.WalletAccount), cfg.ChainID)
	fmt.Fprintf(w, "  Contract:  %s\n", format.Checksum(cfg.ContractAddress))
	fmt.Fprintln(w, strings.Repeat("═", 60)+"\n")
}
