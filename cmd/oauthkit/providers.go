package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/oauthkit/pkg/authmethod"
	"github.com/dmitrymomot/oauthkit/pkg/config"
)

func newProvidersCmd() *cobra.Command {
	var providersFile string

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List the supported providers, or validate a provider file",
		RunE: func(cmd *cobra.Command, args []string) error {
			title := cases.Title(language.English)
			out := cmd.OutOrStdout()

			if providersFile == "" {
				for _, name := range authmethod.Names() {
					fmt.Fprintf(out, "%-10s %s\n", name, title.String(name))
				}
				return nil
			}

			settings, err := config.LoadProviders(providersFile)
			if err != nil {
				return err
			}
			for _, s := range settings {
				status := "ok"
				if !slices.Contains(authmethod.Names(), s.Name) {
					status = "unsupported"
				}
				fmt.Fprintf(out, "%-10s %-10s %-8s %s\n", s.Name, title.String(s.Name), s.Protocol(), status)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&providersFile, "config", "c", "", "Provider settings file (YAML)")
	return cmd
}
