package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmarchetti/voicesim/internal/catalog"
)

func newVoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "Inspect the voice catalog",
	}
	cmd.AddCommand(newVoicesListCmd())
	cmd.AddCommand(newVoicesSelectCmd())
	return cmd
}

func newVoicesListCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog voices",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps(false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, v := range d.voices.All(provider) {
				roles := make([]string, 0, len(v.Roles))
				for _, r := range v.Roles {
					roles = append(roles, string(r))
				}
				fmt.Fprintf(out, "%-12s %-22s %-8s prio=%-3d langs=%s roles=%s\n",
					v.Provider, v.ID, v.Gender, v.Priority,
					strings.Join(v.Languages, ","), strings.Join(roles, ","))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "filter by provider")
	return cmd
}

func newVoicesSelectCmd() *cobra.Command {
	var (
		provider  string
		languages []string
		accent    string
		gender    string
		role      string
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Resolve the voice a persona would get",
		Long:  "Runs the tiered catalog selection for the given constraints and prints the chosen voice and matching tier.",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := catalog.Role(strings.ToLower(strings.TrimSpace(role)))
			if r != catalog.RoleCustomer && r != catalog.RoleSupport {
				return fmt.Errorf("role must be customer or support")
			}

			d, err := buildDeps(false)
			if err != nil {
				return err
			}
			if provider == "" {
				provider = d.cfg.TTSProviderName
			}

			voice, tier, err := d.voices.Select(provider, languages, accent, gender, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s (%s) tier=%s priority=%d\n",
				voice.Provider, voice.ID, voice.Name, tier, voice.Priority)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "catalog provider (default from TTS_PROVIDER_NAME)")
	cmd.Flags().StringSliceVar(&languages, "languages", []string{"en"}, "required languages")
	cmd.Flags().StringVar(&accent, "accent", "", "preferred accent")
	cmd.Flags().StringVar(&gender, "gender", "", "preferred gender")
	cmd.Flags().StringVar(&role, "role", "", "conversation role (customer|support)")
	return cmd
}
