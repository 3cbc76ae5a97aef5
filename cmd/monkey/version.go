package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.ToLower(a.v.GetString("output")) != "json" {
				fmt.Fprintln(a.stdout, version)
				return nil
			}
			info, err := getOutputJSON(map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, string(info))
			return nil
		},
	}
}
