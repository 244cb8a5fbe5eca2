package main

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/darasa/core/grouping"
	"github.com/trezcool/darasa/core/roster"
)

type generateFlags struct {
	classID           string
	dryRun            bool
	ignoreSeparations bool
	notify            string
	xlsx              string
	opts              grouping.Options
}

func (cli *commandLine) generateCmd() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Split the roster of a class into groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.classID == "" {
				return helpOrErr(cmd)
			}
			return cli.generate(cmd.Context(), f)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.classID, "class", "", "ID of the class to group")
	fs.IntVar(&f.opts.GroupSize, "size", 2, "maximum number of students per group")
	fs.StringVar(&f.opts.Prefix, "prefix", "", "group name prefix")
	fs.BoolVar(&f.opts.ClearExisting, "clear", false, "delete the existing groups of the class first")
	fs.BoolVar(&f.opts.BalanceGender, "balance-gender", false, "mix genders within groups")
	fs.BoolVar(&f.opts.BalanceAbility, "balance-ability", false, "mix performance bands within groups")
	fs.BoolVar(&f.opts.PairSupportPartners, "pair-support", false, "pair students who need help with support partners")
	fs.BoolVar(&f.ignoreSeparations, "ignore-separations", false, "do not keep separated students apart")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the groups without storing them")
	fs.StringVar(&f.notify, "notify", "", "email address to send the summary to")
	fs.StringVar(&f.xlsx, "xlsx", "", "also write the groups to this spreadsheet file")
	return cmd
}

func (cli *commandLine) generate(ctx context.Context, f generateFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := f.opts
	opts.RespectSeparations = !f.ignoreSeparations

	var (
		res grouping.Result
		err error
	)
	if f.dryRun {
		res, err = cli.groupSvc.Preview(ctx, f.classID, opts)
	} else {
		var notify []mail.Address
		if f.notify != "" {
			addr, pErr := mail.ParseAddress(f.notify)
			if pErr != nil {
				return errors.Wrap(pErr, "parsing notify address")
			}
			notify = append(notify, *addr)
		}
		res, err = cli.groupSvc.Generate(ctx, f.classID, opts, notify...)
	}
	if err != nil {
		return err
	}

	printResult(cli.stdout(), res)

	if f.xlsx != "" {
		return cli.writeXLSX(f.xlsx, res)
	}
	return nil
}

func (cli *commandLine) writeXLSX(path string, res grouping.Result) error {
	exporter := cli.groupSvc.Exporter()
	if exporter == nil {
		return errors.New("no exporter configured")
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating spreadsheet")
	}
	if err := exporter.Export(file, res.ClassID, res.Groups, res.Unplaced); err != nil {
		_ = file.Close()
		return errors.Wrap(err, "exporting groups")
	}
	return file.Close()
}

func printResult(w io.Writer, res grouping.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, g := range res.Groups {
		fmt.Fprintf(tw, "%s\t%s\n", g.Name, names(g.Members))
	}
	if len(res.Unplaced) > 0 {
		fmt.Fprintf(tw, "Unplaced\t%s\n", names(res.Unplaced))
	}
	_ = tw.Flush()

	status := "stored"
	if !res.Persisted {
		status = "not stored"
	}
	fmt.Fprintf(w, "\n%d/%d students placed in %d groups (%d attempts, %s)\n",
		res.Placed, res.RosterSize, len(res.Groups), res.Attempts, status)
}

func names(students []roster.Student) string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.Name)
	}
	return strings.Join(out, ", ")
}
