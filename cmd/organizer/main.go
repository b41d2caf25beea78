package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/easayliu/emby-tv-organizer/internal/application/services"
	"github.com/easayliu/emby-tv-organizer/internal/application/services/organizer"
	"github.com/easayliu/emby-tv-organizer/internal/application/services/report"
	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/config"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

var (
	inputDir  string
	outputDir string
	reportDir string
)

func main() {
	root := &cobra.Command{
		Use:           "organizer",
		Short:         "按Emby/Plex命名规范整理电视剧目录",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&inputDir, "input", "i", "", "待整理目录")
	root.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "媒体库目录")
	root.PersistentFlags().StringVar(&reportDir, "report", "", "HTML报告输出目录，留空不生成")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "只生成整理预览，不移动任何文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), false)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "生成预览并立即执行迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), true)
		},
	}

	root.AddCommand(previewCmd, runCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, execute bool) error {
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("--input and --output are required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	container, err := services.NewServiceContainer(cfg)
	if err != nil {
		return err
	}

	plan, err := container.Organizer.BuildPlan(ctx, inputDir, outputDir)
	if err != nil {
		return err
	}
	printPlan(plan)

	j := &jobmodel.Job{
		ID:             "cli",
		Status:         jobmodel.StatusRunning,
		InputDir:       inputDir,
		OutputDir:      outputDir,
		Stats:          plan.Stats,
		ProcessedShows: plan.Shows,
	}
	j.UnprocessedShows = plan.Unprocessed

	if execute {
		if err := container.Organizer.Execute(ctx, j); err != nil {
			return err
		}
		fmt.Printf("\n已迁移 %d 集，跳过 %d 集，失败 %d 集\n",
			j.Stats[organizer.StatEpisodesMoved],
			j.Stats[organizer.StatEpisodesSkipped],
			j.Stats[organizer.StatEpisodesErrored])
	}
	j.Status = jobmodel.StatusCompleted

	if reportDir != "" {
		writer := report.NewWriter(reportDir)
		path, err := writer.Write(j)
		if err != nil {
			return err
		}
		fmt.Println("报告:", path)
	}

	if execute && j.Stats[organizer.StatEpisodesErrored] > 0 {
		return fmt.Errorf("%d episodes failed to move", j.Stats[organizer.StatEpisodesErrored])
	}
	return nil
}

func printPlan(plan *organizer.Plan) {
	for _, show := range plan.Shows {
		fmt.Printf("%s (%d) {tmdb-%d}", show.Name, show.Year, show.TMDBID)
		if show.Category != "" {
			fmt.Printf("  [%s]", show.Category)
		}
		fmt.Println()
		for _, season := range show.Seasons {
			for _, ep := range season.Episodes {
				fmt.Printf("  %s\n    -> %s\n", ep.Source, ep.Destination)
			}
		}
	}
	if len(plan.Unprocessed) > 0 {
		fmt.Println("\n未整理:")
		for _, u := range plan.Unprocessed {
			fmt.Printf("  %s (%s)\n", u.Name, u.Reason)
		}
	}
}
