// Command report prints a styled grade forecast for a snapshot file or a
// course stored on a running server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/okian/gradepilot/internal/report"
	"github.com/okian/gradepilot/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultURL = "http://localhost:9080"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, report.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "report",
		Short:         "Print a grade forecast report",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			return logger.SetLevelString(level)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(fileCmd(), courseCmd())
	return root
}

func fileCmd() *cobra.Command {
	var (
		score float64
		title string
	)
	cmd := &cobra.Command{
		Use:   "file <snapshot.json|snapshot.yaml>",
		Short: "Report on a snapshot stored in a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := report.LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), report.Render(title, snap, whatIf(cmd, score)...))
			return err
		},
	}
	cmd.Flags().Float64Var(&score, "score", 0, "what-if average on remaining work")
	cmd.Flags().StringVar(&title, "title", "", "report title (default: file name)")
	return cmd
}

func courseCmd() *cobra.Command {
	var (
		score   float64
		baseURL string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "course <id>",
		Short: "Report on a course stored on a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := report.NewClient(baseURL,
				report.WithHTTPClient(&http.Client{Timeout: timeout}),
				report.WithClientLogger(logger.Named("report")),
			)
			course, err := client.Course(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			title := course.Name
			if title == "" {
				title = course.ID
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), report.Render(title, course.Snapshot, whatIf(cmd, score)...))
			return err
		},
	}
	cmd.Flags().Float64Var(&score, "score", 0, "what-if average on remaining work")
	cmd.Flags().StringVar(&baseURL, "url", defaultURL, "base URL of the gradepilot server")
	cmd.Flags().DurationVar(&timeout, "timeout", report.DefaultTimeout, "request timeout")
	return cmd
}

// whatIf adds a projection only when --score was given.
func whatIf(cmd *cobra.Command, score float64) []report.Option {
	if !cmd.Flags().Changed("score") {
		return nil
	}
	return []report.Option{report.WithWhatIf(score)}
}
