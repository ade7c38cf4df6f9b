package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/homeservices-backend/pkg/config"
	"github.com/angelmondragon/homeservices-backend/pkg/db"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	"github.com/angelmondragon/homeservices-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", "", "migrations directory (empty uses the embedded set; create defaults to "+migrate.DefaultDir+")")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version YYYYMMDDHHMMSS (for version)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "homeservices-migrate"})
	ctx := logg.WithFields(context.Background(), map[string]any{"cmd": *cmd, "dir": *dir})

	// create and validate only touch files
	switch *cmd {
	case "create":
		target := *dir
		if target == "" {
			target = migrate.DefaultDir
		}
		if *name == "" {
			exitf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(target, *name)
		if err != nil {
			exitf("create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			exitf("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)
	logg = logger.New(logger.Options{
		ServiceName: "homeservices-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	if cfg.DB.Driver == config.DriverSQLite {
		exitf("goose migrations target postgres; sqlite schemas come from the dev auto-migrate")
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.SQL()
	requireResource(ctx, logg, "sql database", err)
	source, err := migrate.Source(*dir)
	requireResource(ctx, logg, "migration source", err)
	runner, err := migrate.NewRunner(sqlDB, source)
	requireResource(ctx, logg, "goose provider", err)

	switch *cmd {
	case "up":
		applied, err := runner.Up(ctx)
		if err != nil {
			exitf("%v", err)
		}
		logg.Info(logg.WithField(ctx, "applied", applied), "migrations applied")
	case "down":
		if err := runner.Down(ctx); err != nil {
			exitf("%v", err)
		}
		logg.Info(ctx, "rolled back one migration")
	case "status":
		rows, err := runner.Status(ctx)
		if err != nil {
			exitf("%v", err)
		}
		printStatus(rows)
	case "version":
		if *version == "" {
			current, err := runner.Version(ctx)
			if err != nil {
				exitf("%v", err)
			}
			fmt.Println("current version:", current)
			return
		}
		target, err := strconv.ParseInt(*version, 10, 64)
		if err != nil {
			exitf("invalid -version %q: %v", *version, err)
		}
		if err := runner.MigrateTo(ctx, target); err != nil {
			exitf("%v", err)
		}
		logg.Info(logg.WithField(ctx, "version", target), "schema moved to version")
	default:
		exitf("unknown -cmd value: %s", *cmd)
	}
}

func printStatus(rows []migrate.Status) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
	for _, row := range rows {
		applied := "pending"
		if row.Applied {
			applied = row.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", row.Version, row.Name, applied)
	}
	_ = w.Flush()
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
