package cmd

import (
	"fmt"
	"os"

	"course-planner/internal/config"
	"course-planner/internal/infrastructure/database"
	"course-planner/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration management",
	Long:  "Manage the embedded database migrations of the course planner",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run pending migrations",
	Long:  "Execute all pending database migrations",
	Run:   runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long:  "Display the status of all migrations",
	Run:   runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) {
	db, err := openDatabase(config.Get())
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	applied, err := database.NewMigrationRunner(db, database.EmbeddedMigrations()).RunMigrations()
	if err != nil {
		logger.Error("Migration failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Migrations completed successfully! (%d applied)\n", applied)
}

func runMigrateStatus(cmd *cobra.Command, args []string) {
	db, err := openDatabase(config.Get())
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	migrations, err := database.NewMigrationRunner(db, database.EmbeddedMigrations()).GetMigrationStatus()
	if err != nil {
		logger.Error("Failed to get migration status: %v", err)
		os.Exit(1)
	}

	fmt.Println("Migration Status:")
	fmt.Println("================")
	for _, migration := range migrations {
		status := "Pending"
		if migration.AppliedAt != nil {
			status = fmt.Sprintf("Applied at %s", migration.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("%s - %s [%s]\n", migration.ID, migration.Description, status)
	}
}
