package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/cyclekit/config"
	"github.com/c360studio/cyclekit/derive"
	"github.com/c360studio/cyclekit/rules"
)

func rulesCommand(configPath, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the recode rule table",
	}
	cmd.AddCommand(lintCommand(configPath, logLevel))
	cmd.AddCommand(functionsCommand())
	return cmd
}

func lintCommand(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Validate rule files without processing any data",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(*logLevel)
			cfg, err := config.LoadFromFile(*configPath)
			if err != nil {
				return err
			}
			files, err := cfg.RuleFiles()
			if err != nil {
				return err
			}
			set, err := rules.Load(files...)
			if err != nil {
				return err
			}
			if err := set.Validate(derive.DefaultRegistry.Known); err != nil {
				return err
			}
			fmt.Printf("%d rules across %d files, %d harmonized variables, all valid\n",
				set.Len(), len(files), len(set.Targets()))
			return nil
		},
	}
}

func functionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the registered transformation functions",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range derive.DefaultRegistry.Names() {
				def, _ := derive.DefaultRegistry.Lookup(name)
				fmt.Printf("%-18s %d inputs  %s\n", def.Name, def.Inputs, def.Description)
			}
		},
	}
}
