// Command migrate manages the flashdeck schema: versioned SQL migrations, the
// model-driven development schema, status reporting and single-step rollback.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"flashdeck/internal/config"
	"flashdeck/internal/database"
	"flashdeck/internal/middleware"

	"gorm.io/gorm"
)

var errUsage = errors.New("usage")

type migrator struct {
	db  *gorm.DB
	cfg *config.Config
	out io.Writer
}

type subcommand struct {
	name    string
	args    string
	summary string
	minArgs int
	run     func(*migrator, context.Context, []string) error
}

var subcommands = []subcommand{
	{name: "up", summary: "apply pending SQL migrations", run: (*migrator).up},
	{name: "auto", summary: "create or update tables from the models (development only)", run: (*migrator).auto},
	{name: "status", summary: "print the schema policy and migration ledger", run: (*migrator).status},
	{name: "check", summary: "fail when SQL migrations are pending", run: (*migrator).check},
	{name: "down", args: "<version>", summary: "roll back one applied migration", minArgs: 1, run: (*migrator).down},
}

func main() {
	flag.Usage = func() { printUsage(flag.CommandLine.Output()) }
	flag.Parse()

	if err := run(context.Background(), flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(flag.CommandLine.Output(), err)
			flag.Usage()
			os.Exit(2)
		}
		middleware.Logger.Error("flashdeck migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmd, rest, err := resolve(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	return cmd.run(&migrator{db: db, cfg: cfg, out: os.Stdout}, ctx, rest)
}

// resolve picks the subcommand named by args[0] and checks its arity.
func resolve(args []string) (*subcommand, []string, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("%w: missing command", errUsage)
	}
	name := strings.ToLower(strings.TrimSpace(args[0]))
	for i := range subcommands {
		cmd := &subcommands[i]
		if cmd.name != name {
			continue
		}
		if len(args)-1 < cmd.minArgs {
			return nil, nil, fmt.Errorf("%w: %s needs %s", errUsage, cmd.name, cmd.args)
		}
		return cmd, args[1:], nil
	}
	return nil, nil, fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: migrate <command> [args]")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, cmd := range subcommands {
		fmt.Fprintf(tw, "  %s %s\t%s\n", cmd.name, cmd.args, cmd.summary)
	}
	_ = tw.Flush()
}

func (m *migrator) up(ctx context.Context, _ []string) error {
	if err := database.RunMigrations(ctx, m.db); err != nil {
		return fmt.Errorf("sql migrations: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "flashdeck schema is current")
	return nil
}

func (m *migrator) auto(ctx context.Context, _ []string) error {
	cfg := *m.cfg
	cfg.DBSchemaMode = database.SchemaModeAuto
	if err := database.ApplySchema(ctx, m.db, &cfg); err != nil {
		return fmt.Errorf("model schema: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "flashdeck tables built from models", slog.String("driver", cfg.DBDriver))
	return nil
}

func (m *migrator) status(ctx context.Context, _ []string) error {
	status, err := database.GetSchemaStatus(ctx, m.db, m.cfg)
	if err != nil {
		return fmt.Errorf("schema status: %w", err)
	}
	writeStatus(m.out, status)
	return nil
}

func (m *migrator) check(ctx context.Context, _ []string) error {
	status, err := database.GetSchemaStatus(ctx, m.db, m.cfg)
	if err != nil {
		return fmt.Errorf("schema status: %w", err)
	}
	if n := len(status.PendingMigrations); n > 0 {
		return fmt.Errorf("%d migration(s) pending, first is %s", n, status.PendingMigrations[0].String())
	}
	return nil
}

func (m *migrator) down(ctx context.Context, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil || version <= 0 {
		return fmt.Errorf("invalid version %q", args[0])
	}
	if err := database.RollbackMigration(ctx, m.db, version); err != nil {
		return fmt.Errorf("rollback %d: %w", version, err)
	}
	return nil
}

func writeStatus(w io.Writer, status *database.SchemaStatus) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "mode\t%s\n", status.Mode)
	fmt.Fprintf(tw, "driver\t%s\n", status.Driver)
	fmt.Fprintf(tw, "env\t%s\n", status.Environment)
	fmt.Fprintf(tw, "sql migrations\t%t\n", status.WillRunSQL)
	fmt.Fprintf(tw, "automigrate\t%t\n", status.WillRunAutoMigrate)

	applied := make([]string, 0, len(status.AppliedVersions))
	for _, v := range status.AppliedVersions {
		applied = append(applied, fmt.Sprintf("%06d", v))
	}
	fmt.Fprintf(tw, "applied\t%s\n", listOrNone(applied))

	pending := make([]string, 0, len(status.PendingMigrations))
	for _, mig := range status.PendingMigrations {
		pending = append(pending, mig.String())
	}
	fmt.Fprintf(tw, "pending\t%s\n", listOrNone(pending))
	_ = tw.Flush()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
