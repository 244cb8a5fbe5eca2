package main

import (
	"github.com/spf13/cobra"

	"github.com/trezcool/darasa/storage/database"
)

var runMigrationsFunc = database.RunMigrations // mockable

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run a database migration command",
		Long: `Run a goose command against the embedded migrations.

Commands: up, up-by-one, up-to VERSION, down, down-to VERSION, redo, reset,
status, version, create NAME [sql], fix`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return helpOrErr(cmd)
			}
			return runMigrationsFunc(cli.db, args[0], args[1:]...)
		},
	}
}
