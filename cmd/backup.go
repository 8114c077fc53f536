package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"course-planner/internal/config"
	"course-planner/internal/infrastructure/repository"
	"course-planner/internal/service"
	"course-planner/pkg/logger"

	"github.com/spf13/cobra"
)

var refreshTimeout time.Duration

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage upstream backup snapshots",
}

var backupRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Snapshot the configured curricula now",
	Long: `Fetch the curriculum of every career listed under backup.careers and
store it as the backup served when the curriculum service is unavailable.`,
	Run: runBackupRefresh,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupRefreshCmd)

	backupRefreshCmd.Flags().DurationVar(&refreshTimeout, "timeout", 5*time.Minute, "Overall refresh timeout")
}

func runBackupRefresh(cmd *cobra.Command, args []string) {
	cfg := config.Get()
	if len(cfg.Backup.Careers) == 0 {
		logger.Warn("backup.careers is empty; nothing to refresh")
		return
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	backupRepo := repository.NewBackupRepository(db)
	// no backups and no cache: snapshots come from upstream only
	gateway := newGateway(cfg, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	report, err := service.NewBackupService(backupRepo, gateway, configuredCareers(cfg)).Refresh(ctx)
	if err != nil {
		logger.Error("Backup refresh failed: %v", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(report)

	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}
