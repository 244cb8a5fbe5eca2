package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (cli *commandLine) profilesCmd() *cobra.Command {
	var classID string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Show the ability profiles of the students of a class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if classID == "" {
				return helpOrErr(cmd)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return cli.profiles(ctx, classID)
		},
	}
	cmd.Flags().StringVar(&classID, "class", "", "ID of the class")
	return cmd
}

func (cli *commandLine) profiles(ctx context.Context, classID string) error {
	profiles, err := cli.groupSvc.Profiles(ctx, classID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(cli.stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STUDENT\tBAND\tAVERAGE\tSUPPORT PARTNER")
	for _, id := range ids {
		p := profiles[id]
		avg := "-"
		if p.Average.Valid {
			avg = fmt.Sprintf("%.1f%%", p.Average.Float64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", id, p.Band, avg, p.IsSupportPartner)
	}
	return tw.Flush()
}
