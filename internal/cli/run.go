package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/artpar/doctester/internal/tester"
)

type runOptions struct {
	login bool
	json  bool
}

type runOutput struct {
	Handler     string `json:"handler"`
	Method      string `json:"method"`
	URL         string `json:"url,omitempty"`
	Issued      bool   `json:"issued"`
	Status      int    `json:"status,omitempty"`
	StatusText  string `json:"status_text,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	TimingMS    int64  `json:"timing_ms"`
	Body        string `json:"body"`
	Error       string `json:"error,omitempty"`
	LoggedIn    bool   `json:"logged_in"`
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run URL HANDLER METHOD",
		Short: "Run the test request of one documented method",
		Long: "Load the documentation page at URL, build the test request declared by the HANDLER\n" +
			"METHOD form and print the result as the response panel would show it.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd, root, opts, args[0], args[1], strings.ToUpper(args[2]))
		},
	}

	cmd.Flags().BoolVar(&opts.login, "login", false, "Run the auto-login flow first")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output the result as JSON")

	return cmd
}

func runTest(cmd *cobra.Command, root *rootOptions, opts *runOptions, rawURL, handler, method string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx, root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.Open(ctx, rawURL, "")
	if err != nil {
		return err
	}

	if opts.login {
		if err := session.Login.Login(ctx, nil); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	res := session.Runner.Run(ctx, handler, method)
	session.Runner.Render(res)

	out := runOutput{
		Handler:     res.Handler,
		Method:      res.Method,
		Issued:      res.Issued,
		Status:      res.StatusCode,
		StatusText:  res.Status,
		ContentType: res.ContentType,
		TimingMS:    res.Elapsed.Milliseconds(),
		Body:        res.Display(),
		LoggedIn:    session.Probe.IsLoggedIn(),
	}
	if res.Request != nil {
		out.URL = res.Request.URL
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}

	if !res.Issued {
		return fmt.Errorf("build test request: %w", res.Err)
	}

	if opts.json {
		if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	} else {
		printRun(cmd.OutOrStdout(), out)
	}

	if res.Err != nil {
		return fmt.Errorf("test request failed: %w", res.Err)
	}
	return nil
}

func printRun(w io.Writer, out runOutput) {
	fmt.Fprintf(w, "%s %s\n", out.Method, out.URL)
	if out.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", out.Error)
	} else {
		fmt.Fprintf(w, "HTTP %s\n", out.StatusText)
	}
	fmt.Fprintf(w, "Time: %s\n", formatDuration(time.Duration(out.TimingMS)*time.Millisecond))
	fmt.Fprintf(w, "Session: %s\n", sessionLabel(out.LoggedIn))
	fmt.Fprintln(w)
	fmt.Fprintln(w, tester.ResultTitle)
	fmt.Fprintln(w, out.Body)
}
