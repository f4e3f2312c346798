package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nodel-go/nodel/path"
	"github.com/nodel-go/nodel/uri"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <uri> <path>",
	Short: "Remove the value addressed by path and save the bound data source",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkArgs(args, 2, "nodelctl delete <uri> <path>"); err != nil {
			return err
		}
		ctx := context.Background()
		root, err := uri.Bind(args[0])
		if err != nil {
			return err
		}
		p, err := path.Parse(args[1])
		if err != nil {
			return err
		}
		if err := p.Del(ctx, root); err != nil {
			return err
		}
		if err := root.Save(ctx); err != nil {
			return err
		}
		printVerbose("deleted %s\n", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
