package main

import (
	"database/sql"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/grouping"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	db       *sql.DB
	groupSvc *grouping.Service
	out      io.Writer
}

func (cli *commandLine) stdout() io.Writer {
	if cli.out == nil {
		return os.Stdout
	}
	return cli.out
}

// helpOrErr prints the usage of cmd and returns errHelp.
func helpOrErr(cmd *cobra.Command) error {
	_ = cmd.Help()
	return errHelp
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administer the student grouping service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpOrErr(cmd)
		},
	}
	root.SetOut(cli.stdout())
	root.AddCommand(
		cli.migrateCmd(),
		cli.generateCmd(),
		cli.profilesCmd(),
		cli.tokenCmd(),
	)
	return root
}

// run executes the command line args (program name included).
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}
