package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/stockroom/app/dashboard"
	"github.com/shashiranjanraj/stockroom/config"
	"github.com/shashiranjanraj/stockroom/internal/tui"
	"github.com/shashiranjanraj/stockroom/pkg/auth"
	"github.com/shashiranjanraj/stockroom/pkg/table"
)

var (
	tokenSubject string
	tokenScope   string
	tokenTTL     time.Duration
)

// stockroom token: sign a bearer token for the inventory API.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a bearer token for the inventory API (API_AUTH=true)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		tok, err := auth.GenerateToken(tokenSubject, tokenScope, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

// loadWaiter is a dashboard.Publisher that closes done on the first
// "loaded" event.
type loadWaiter struct {
	done chan struct{}
}

func (w *loadWaiter) Publish(_ string, data []byte) {
	var e dashboard.Event
	if json.Unmarshal(data, &e) != nil || e.Type != dashboard.EventLoaded {
		return
	}
	select {
	case <-w.done:
	default:
		close(w.done)
	}
}

var (
	exportQuery  string
	exportOut    string
	exportFormat string
)

// stockroom export <section>: run a search and write one section.
var exportCmd = &cobra.Command{
	Use:   "export <section>",
	Short: "Search and write one dashboard section as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sec, ok := dashboard.ParseSection(args[0])
		if !ok {
			return fmt.Errorf("unknown section %q", args[0])
		}

		ctx, stop := signalContext()
		defer stop()

		rt, err := boot(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		w := &loadWaiter{done: make(chan struct{})}
		deps := rt.deps(w)
		deps.Stagger = 0
		p := dashboard.NewPage(ctx, "cli", deps)
		defer p.Close()

		if _, err := p.Submit(ctx, exportQuery); err != nil {
			return err
		}
		select {
		case <-w.done:
		case <-ctx.Done():
			return ctx.Err()
		}

		doc, err := p.ExportTable(sec, table.Format(exportFormat))
		if err != nil {
			return err
		}
		if exportOut == "" || exportOut == "-" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)
			return err
		}
		if err := os.WriteFile(exportOut, []byte(doc), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", exportOut)
		return nil
	},
}

var browseQuery string

// stockroom browse: the dashboard in the terminal.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the dashboard in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		rt, err := boot(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		n := tui.NewNotifier()
		p := dashboard.NewPage(ctx, "terminal", rt.deps(n))
		defer p.Close()

		return tui.Run(ctx, p, n, browseQuery)
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "stockroom-dashboard", "Token subject")
	tokenCmd.Flags().StringVar(&tokenScope, "scope", "inventory:read", "Token scope")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")

	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "Search query (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file, - or empty for stdout")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(table.CSV), "Export format")
	_ = exportCmd.MarkFlagRequired("query")

	browseCmd.Flags().StringVarP(&browseQuery, "query", "q", "", "Initial search")
}
