package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3" // sqlite driver for database/sql
	"github.com/spf13/cobra"

	"github.com/libreshelf/circulation-go/audit"
	"github.com/libreshelf/circulation-go/shell"
	"github.com/libreshelf/circulation-go/shell/config"
	"github.com/libreshelf/circulation-go/store/engine"
)

type rootFlags struct {
	postgresDSN string
	sqlitePath  string
	verbose     bool
}

// env holds everything a subcommand needs once the store is open.
type env struct {
	store    *engine.Store
	recorder *audit.Recorder
	logger   *slog.Logger
	close    func()
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "libraryctl",
		Short:         "Operate the library circulation service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&flags.postgresDSN, "postgres", config.DefaultPostgresDSN, "Postgres DSN")
	rootCmd.PersistentFlags().StringVar(&flags.sqlitePath, "sqlite", "", "path to a SQLite database file (overrides --postgres)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newSchemaCommand(flags),
		newBookCommand(flags),
		newCopyCommand(flags),
		newMemberCommand(flags),
		newStaffCommand(flags),
		newCheckoutCommand(flags),
		newReturnCommand(flags),
		newReserveCommand(flags),
		newCancelReservationCommand(flags),
		newFineCommand(flags),
		newSweepCommand(flags),
		newLoansCommand(flags),
		newQueueCommand(flags),
	)

	return rootCmd
}

// openEnv connects to the configured database and wires the storage engine,
// logger and audit recorder. The caller must invoke env.close.
func openEnv(ctx context.Context, flags *rootFlags) (*env, error) {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	storeLogger := shell.NewSlogLogger(logger)

	if flags.sqlitePath != "" {
		db, err := sql.Open("sqlite3", flags.sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database: %w", err)
		}

		// sqlite serializes writers; a single connection avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)

		s, err := engine.NewFromSQLDB(db, engine.WithDialect("sqlite3"), engine.WithLogger(storeLogger))
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return &env{
			store:    s,
			recorder: audit.NewRecorder(s, audit.WithLogger(storeLogger)),
			logger:   logger,
			close:    func() { _ = db.Close() },
		}, nil
	}

	poolConfig, err := config.PostgresPGXPoolConfig(flags.postgresDSN)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s, err := engine.NewFromPGXPool(pool, engine.WithLogger(storeLogger))
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &env{
		store:    s,
		recorder: audit.NewRecorder(s, audit.WithLogger(storeLogger)),
		logger:   logger,
		close:    pool.Close,
	}, nil
}

func newSchemaCommand(flags *rootFlags) *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the database schema",
	}

	schemaCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create all tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer e.close()

			if err = e.store.CreateSchema(cmd.Context()); err != nil {
				return err
			}

			cmd.Println("schema created")

			return nil
		},
	})

	return schemaCmd
}
