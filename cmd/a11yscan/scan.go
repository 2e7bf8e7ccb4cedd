package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	a11y "github.com/richardissailing/PyAccessibility"
	"github.com/richardissailing/PyAccessibility/config"
	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/fetch"
	"github.com/richardissailing/PyAccessibility/filter"
	"github.com/richardissailing/PyAccessibility/report"
	"github.com/richardissailing/PyAccessibility/rule"
	"github.com/richardissailing/PyAccessibility/scan"
	"github.com/richardissailing/PyAccessibility/telemetry"
)

var (
	scanRules     []string
	scanFilter    string
	scanFormat    string
	scanOutput    string
	scanEmail     bool
	scanTrace     bool
	scanFailBelow float64
)

var scanCmd = &cobra.Command{
	Use:   "scan <url|file|->",
	Short: "Scan a page and print the accessibility report",
	Long: `Scan evaluates a single page against the rule catalogue.

The target is a URL (http:// or https://), a local HTML file, or "-"
to read markup from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		format, err := report.ParseFormat(scanFormat)
		if err != nil {
			return err
		}

		var flt *filter.Filter
		expr := scanFilter
		if expr == "" {
			expr = cfg.Scan.GetFilter()
		}
		if expr != "" {
			if flt, err = filter.Compile(expr); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		target := args[0]
		doc, subject, err := resolveTarget(ctx, cfg, logger, target)
		if err != nil {
			return err
		}

		catalog := rule.NewCatalog()
		opts := []scan.Option{
			scan.WithLogger(logger),
			scan.WithTimeout(cfg.Scan.GetTimeout()),
		}
		if scanTrace {
			tp := telemetry.NewTracerProvider(logger)
			defer a11y.CloseWithLog(shutdownFunc(tp.Shutdown), logger, "tracer provider")
			opts = append(opts, scan.WithTracer(tp.Tracer(telemetry.ServiceName)))
		}
		engine := scan.NewEngine(catalog, opts...)

		ruleIDs := scanRules
		if len(ruleIDs) == 0 {
			ruleIDs = cfg.Scan.GetRules()
		}
		if len(ruleIDs) == 0 {
			ruleIDs = catalog.IDs()
		}

		result, err := engine.Scan(ctx, doc, ruleIDs)
		if err != nil {
			return err
		}
		if flt != nil {
			filtered, err := flt.Apply(result.Findings)
			if err != nil {
				return err
			}
			result = scan.Aggregate(filtered, result.ElementsChecked)
		}

		rep := report.New(subject, result)

		out := cmd.OutOrStdout()
		if scanOutput != "" {
			f, err := os.Create(scanOutput)
			if err != nil {
				return err
			}
			defer a11y.CloseWithLog(f, logger, "report file")
			out = f
		}
		if err := report.Render(out, format, rep); err != nil {
			return err
		}

		if scanEmail {
			if cfg.Email == nil {
				return fmt.Errorf("--email requires an email section in the config")
			}
			mailer, err := report.NewMailer(report.SMTPConfig{
				Host:     cfg.Email.Host,
				Port:     cfg.Email.GetPort(),
				Username: cfg.Email.Username,
				Password: cfg.Email.Password,
				From:     cfg.Email.From,
				To:       cfg.Email.To,
			}, logger)
			if err != nil {
				return err
			}
			if err := mailer.Send(ctx, rep); err != nil {
				return err
			}
		}

		if scanFailBelow > 0 && result.Score < scanFailBelow {
			return fmt.Errorf("compliance score %.1f is below threshold %.1f",
				result.Score, scanFailBelow)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanRules, "rules", nil,
		"rule ids to run (default: all)")
	scanCmd.Flags().StringVar(&scanFilter, "filter", "",
		`CEL expression applied to findings, e.g. 'severity == "critical"'`)
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "text",
		"output format: text, json, html")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "",
		"write the report to a file instead of stdout")
	scanCmd.Flags().BoolVar(&scanEmail, "email", false,
		"email the report using the configured SMTP settings")
	scanCmd.Flags().BoolVar(&scanTrace, "trace", false,
		"log completed trace spans")
	scanCmd.Flags().Float64Var(&scanFailBelow, "fail-below", 0,
		"exit non-zero when the compliance score is below this value")
	rootCmd.AddCommand(scanCmd)
}

// resolveTarget loads the document from a URL, file, or stdin and returns
// it with the subject string used in the report.
func resolveTarget(ctx context.Context, cfg *config.Config, logger *slog.Logger, target string) (*dom.Document, string, error) {
	switch {
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		client := fetch.NewClient(
			fetch.WithLogger(logger),
			fetch.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.GetTimeout()}),
		)
		doc, err := client.Fetch(ctx, target)
		return doc, target, err
	case target == "-":
		doc, err := dom.Parse(os.Stdin)
		return doc, "stdin", err
	default:
		f, err := os.Open(target)
		if err != nil {
			return nil, "", err
		}
		defer a11y.CloseWithLog(f, logger, "input file")
		doc, err := dom.Parse(f)
		return doc, target, err
	}
}

// shutdownFunc adapts a context-taking shutdown to io.Closer.
type shutdownFunc func(context.Context) error

func (f shutdownFunc) Close() error { return f(context.Background()) }
