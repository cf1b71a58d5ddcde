package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/service"
)

func newLoadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Import catalog data from JSON, YAML or CSV files",
	}

	loader := func(name string, load func(*service.Importer, context.Context, string) (*service.ImportResult, error)) *cobra.Command {
		return &cobra.Command{
			Use:   name + " <file>",
			Short: "Import " + name + "; existing rows are skipped",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := database.New(a.cfg, a.log)
				if err != nil {
					return err
				}
				res, err := load(service.NewImporter(db, a.log), cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d read, %d created\n", name, res.Total, res.Created)
				return nil
			},
		}
	}

	cmd.AddCommand(
		loader("ingredients", (*service.Importer).LoadIngredients),
		loader("tags", (*service.Importer).LoadTags),
	)
	return cmd
}
