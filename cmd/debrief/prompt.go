package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/joss/debrief/internal/prompts"
)

func promptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Manage reusable prompt templates",
		Long: `Store prompt templates with {{variable}} placeholders, search them
and fill them for reuse across sessions.`,
	}

	cmd.AddCommand(
		promptSaveCmd(a),
		promptShowCmd(a),
		promptListCmd(a),
		promptSearchCmd(a),
		promptDeleteCmd(a),
		promptFillCmd(a),
	)

	return cmd
}

func promptSaveCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "save <name> <content>",
		Short: "Save a new prompt template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.promptStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p := prompts.New(args[0], args[1], category)
			if err := store.Save(p); err != nil {
				return err
			}

			fmt.Printf("Saved %s", color.CyanString(p.Name))
			if len(p.Variables) > 0 {
				fmt.Printf(" (variables: %s)", strings.Join(p.Variables, ", "))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Prompt category (default: general)")

	return cmd
}

func promptShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a prompt template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.promptStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.Get(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s  [%s]  used %d times\n\n%s\n",
				color.CyanString(p.Name), p.Category, p.UseCount, p.Content)
			if len(p.Variables) > 0 {
				fmt.Printf("\nVariables: %s\n", strings.Join(p.Variables, ", "))
			}
			return nil
		},
	}
}

func promptListCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.promptStore()
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(category)
			if err != nil {
				return err
			}
			printPromptTable(list)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Limit to one category")

	return cmd
}

func promptSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search prompts by name, content or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.promptStore()
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.Search(args[0])
			if err != nil {
				return err
			}
			printPromptTable(list)
			return nil
		},
	}
}

func promptDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.promptStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.Delete(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", p.Name)
			return nil
		},
	}
}

func promptFillCmd(a *app) *cobra.Command {
	var values []string

	cmd := &cobra.Command{
		Use:   "fill <name>",
		Short: "Fill a prompt's variables and print the result",
		Example: `  debrief prompt fill review --var file=main.go --var concern=races`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.promptStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.Get(args[0])
			if err != nil {
				return err
			}

			filled := map[string]string{}
			for _, pair := range values {
				key, value, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("invalid --var %q, expected name=value", pair)
				}
				filled[key] = value
			}

			if missing := prompts.ValidateVariables(p.Content, filled); len(missing) > 0 {
				return fmt.Errorf("missing variables: %s", strings.Join(missing, ", "))
			}

			if _, err := store.RecordUse(p.Name); err != nil {
				return err
			}
			fmt.Println(prompts.FillTemplate(p.Content, filled))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&values, "var", nil, "Variable as name=value (repeatable)")

	return cmd
}

func printPromptTable(list []prompts.Prompt) {
	if len(list) == 0 {
		fmt.Println(color.YellowString("No prompts found."))
		return
	}
	for i, p := range list {
		preview := p.Content
		if len(preview) > 60 {
			preview = preview[:60]
		}
		fmt.Printf("%3d  %-20s %-10s %3d  %s\n",
			i+1, color.CyanString(p.Name), p.Category, p.UseCount, preview)
	}
}
