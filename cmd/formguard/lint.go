package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/formguard/pkg/rules"
)

func lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <rules.yaml>",
		Short: "Validate a rules file",
		Long: `Load a rules file, build the guard of every route and print a summary.

Exits non-zero on the first unknown rule kind, bad parameter or duplicate
route name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := rules.LoadFile(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROUTE\tPATH\tMETHODS\tFIELD\tRULES")
			for _, route := range doc.Routes {
				g, err := route.Guard()
				if err != nil {
					return err
				}
				for i, step := range g.Steps() {
					name, path, methods := route.Name, routePath(route), g.Methods().String()
					if i > 0 {
						name, path, methods = "", "", ""
					}
					kinds := make([]string, 0, len(step.Validators))
					for _, v := range step.Validators {
						kinds = append(kinds, v.Name())
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", name, path, methods, step.Field, strings.Join(kinds, ","))
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %d route(s) OK\n", args[0], len(doc.Routes))
			return nil
		},
	}
}

// routePath defaults to /<name> for routes without a path.
func routePath(route rules.Route) string {
	if route.Path != "" {
		return route.Path
	}
	return "/" + route.Name
}
