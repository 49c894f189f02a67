// Command dbtool runs maintenance tasks against the configured database.
//
//	dbtool migrate
//	dbtool check-users
//	dbtool clear
//	dbtool seed -file configs/seed.example.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/nagumeena22/ColabSphere/internal/app"
	"github.com/nagumeena22/ColabSphere/internal/config"
	"github.com/nagumeena22/ColabSphere/internal/db"
	"github.com/nagumeena22/ColabSphere/internal/metrics"
	"github.com/nagumeena22/ColabSphere/internal/user"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
)

// clearTables are emptied by the clear command. Books and refresh tokens are kept.
var clearTables = []string{"users", "projects", "join_requests", "project_view_applications"}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close(database)

	ctx := context.Background()

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "migrate":
		err = db.RunMigrations(ctx, database, app.Models(), app.Migrations()...)
	case "check-users":
		err = checkUsers(ctx, database, os.Stdout)
	case "clear":
		err = clearData(ctx, database, os.Stdout)
	case "seed":
		fs := flag.NewFlagSet("seed", flag.ExitOnError)
		file := fs.String("file", "configs/seed.example.yaml", "YAML fixture with users, projects and books")
		_ = fs.Parse(args)
		err = seedFile(ctx, database, *file, os.Stdout)
	default:
		usage(os.Stderr)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: dbtool <migrate|check-users|clear|seed [-file path]>")
}

func checkUsers(ctx context.Context, database *bun.DB, out io.Writer) error {
	users, err := user.NewRepository(database, metrics.NewMock()).GetAll(ctx, "")
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Total users found:", len(users))
	for i, u := range users {
		fmt.Fprintf(out, "%d. Email: %s, RegNo: %d, Name: %s\n", i+1, u.Email, u.RegNo, u.Name)
	}
	return nil
}

func clearData(ctx context.Context, database *bun.DB, out io.Writer) error {
	stmt := "TRUNCATE " + strings.Join(clearTables, ", ") + " RESTART IDENTITY"
	if _, err := database.ExecContext(ctx, stmt); err != nil {
		return err
	}
	fmt.Fprintln(out, "Cleared:", strings.Join(clearTables, ", "))
	return nil
}
