package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artpar/doctester/internal/auth"
)

type loginOutput struct {
	Path     string `json:"path"`
	Method   string `json:"method"`
	Settled  bool   `json:"settled"`
	LoggedIn bool   `json:"logged_in"`
	Error    string `json:"error,omitempty"`
}

func newLoginCommand(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "login URL",
		Short: "Log in through the page's auth test link",
		Long: "Run the login call declared by the auth test link of the documentation page at URL\n" +
			"and report whether a session cookie is now held. Configure test_user to override\n" +
			"the declared credentials.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx, root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			session, err := a.Open(ctx, args[0], "")
			if err != nil {
				return err
			}

			desc, err := session.Login.Descriptor()
			if err != nil {
				return describeAuthError(err)
			}

			out := loginOutput{Path: desc.Path, Method: desc.Method}
			loginErr := session.Login.Login(ctx, func() { out.Settled = true })
			if loginErr != nil {
				out.Error = loginErr.Error()
			}
			out.LoggedIn = session.Probe.IsLoggedIn()

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			} else {
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s %s\n", out.Method, out.Path)
				if out.Error != "" {
					fmt.Fprintf(w, "Error: %s\n", out.Error)
				}
				fmt.Fprintf(w, "Session: %s\n", sessionLabel(out.LoggedIn))
			}

			if loginErr != nil {
				return fmt.Errorf("login: %w", loginErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the result as JSON")

	return cmd
}

func describeAuthError(err error) error {
	var descErr *auth.DescriptorError
	switch {
	case errors.Is(err, auth.ErrNoAuthTest):
		return fmt.Errorf("the page declares no auth test link: %w", err)
	case errors.As(err, &descErr):
		return fmt.Errorf("the auth test link has an unusable test_data attribute: %w", err)
	}
	return err
}
