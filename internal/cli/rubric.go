package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/woolshed/flockmark/internal/adapters/rubricstore"
	"github.com/woolshed/flockmark/internal/config"
)

var rubricFlags struct {
	dbPath string
}

var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Inspect and manage scoring rubrics",
}

var rubricValidateCmd = &cobra.Command{
	Use:   "validate <file.yaml>",
	Short: "Validate a rubric YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		rubric, err := config.LoadRubric(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("ok: %d criteria\n", len(rubric.Criteria))
		return nil
	},
}

var rubricListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved rubrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRubricDB(cmd.Context(), func(ctx context.Context, db *rubricstore.DB) error {
			names, err := db.List(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		})
	},
}

var rubricShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved rubric as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRubricDB(cmd.Context(), func(ctx context.Context, db *rubricstore.DB) error {
			rubric, err := db.Get(ctx, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rubric)
		})
	},
}

var rubricSaveCmd = &cobra.Command{
	Use:   "save <name> <file.yaml>",
	Short: "Save a rubric YAML file under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rubric, err := config.LoadRubric(args[1])
		if err != nil {
			return err
		}
		return withRubricDB(cmd.Context(), func(ctx context.Context, db *rubricstore.DB) error {
			return db.Save(ctx, args[0], rubric)
		})
	},
}

var rubricDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved rubric",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRubricDB(cmd.Context(), func(ctx context.Context, db *rubricstore.DB) error {
			return db.Delete(ctx, args[0])
		})
	},
}

func init() {
	rubricCmd.PersistentFlags().StringVar(&rubricFlags.dbPath, "db", "flockmark.db", "rubric database file")
	rubricCmd.AddCommand(rubricValidateCmd, rubricListCmd, rubricShowCmd, rubricSaveCmd, rubricDeleteCmd)
	rootCmd.AddCommand(rubricCmd)
}

func withRubricDB(ctx context.Context, fn func(context.Context, *rubricstore.DB) error) error {
	db, err := rubricstore.Open(rubricFlags.dbPath)
	if err != nil {
		return fmt.Errorf("open rubric store: %w", err)
	}
	defer db.Close()
	return fn(ctx, db)
}
