package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artpar/doctester/internal/page"
)

type treeMethod struct {
	Panel   string `json:"panel"`
	Method  string `json:"method"`
	URL     string `json:"url"`
	Visible bool   `json:"visible"`
}

type treeGroup struct {
	Key      string       `json:"key"`
	Expanded bool         `json:"expanded"`
	Methods  []treeMethod `json:"methods"`
}

func newTreeCommand(root *rootOptions) *cobra.Command {
	var (
		fragment string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "tree URL",
		Short: "List the handlers and methods of a documentation page",
		Long: "List every handler group and method panel of the page at URL. The group and\n" +
			"panel restored from the URL fragment, or --fragment, are marked.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx, root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			session, err := a.Open(ctx, args[0], fragment)
			if err != nil {
				return err
			}

			groups := buildTree(session.Page.Groups(), session.Navigator.Expanded(), session.Navigator.Visible())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), groups)
			}

			w := cmd.OutOrStdout()
			for _, g := range groups {
				marker := "▸"
				if g.Expanded {
					marker = "▾"
				}
				fmt.Fprintf(w, "%s %s\n", marker, g.Key)
				for _, m := range g.Methods {
					dot := " "
					if m.Visible {
						dot = "●"
					}
					fmt.Fprintf(w, "  %s %-6s %s\n", dot, m.Method, m.URL)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&fragment, "fragment", "f", "", "Fragment to restore instead of the URL's")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the tree as JSON")

	return cmd
}

func buildTree(groups []page.Group, expanded, visible string) []treeGroup {
	out := make([]treeGroup, 0, len(groups))
	for _, g := range groups {
		tg := treeGroup{Key: g.Key, Expanded: g.Key == expanded, Methods: []treeMethod{}}
		for _, m := range g.Methods {
			tg.Methods = append(tg.Methods, treeMethod{
				Panel:   m.PanelID,
				Method:  m.Method,
				URL:     m.URL,
				Visible: m.PanelID == visible,
			})
		}
		out = append(out, tg)
	}
	return out
}
