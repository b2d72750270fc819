package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/pipeline"
)

func newStagesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stages",
		Short: "Inspect and seed the pipeline stage catalog",
	}
	cmd.AddCommand(newStagesListCommand(ctx))
	cmd.AddCommand(newStagesSeedCommand(ctx))
	return cmd
}

func newStagesListCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pipeline stages in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.stageService(cmd.Context())
			if err != nil {
				return err
			}
			stages, err := svc.List(cmd.Context(), !all)
			if err != nil {
				return err
			}
			if len(stages) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stages configured")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatStages(stages, ctx.styled()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive stages")
	return cmd
}

func newStagesSeedCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create missing stages from a TOML file or the built-in defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := loadSeeds(file)
			if err != nil {
				return err
			}
			svc, err := ctx.stageService(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Seed(cmd.Context(), seeds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d stages created\n", created, len(seeds))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "TOML seed file with [[stages]] entries")
	return cmd
}

func loadSeeds(path string) ([]config.StageSeed, error) {
	if strings.TrimSpace(path) == "" {
		return config.DefaultStageSeeds(), nil
	}
	return config.LoadStageSeeds(path)
}

func formatStages(stages []domain.Stage, styled bool) string {
	sorted := pipeline.SortCatalog(stages)
	rows := make([][]string, 0, len(sorted))
	for _, stage := range sorted {
		active := "yes"
		if !stage.Active {
			active = "no"
		}
		rows = append(rows, []string{
			strconv.Itoa(stage.Order),
			stage.Name,
			active,
			stage.ID,
		})
	}
	return renderTable(
		[]string{"Order", "Name", "Active", "ID"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
		styled,
	)
}
