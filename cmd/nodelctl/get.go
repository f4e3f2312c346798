package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nodel-go/nodel/path"
	"github.com/nodel-go/nodel/serialize"
	"github.com/nodel-go/nodel/uri"
)

var getCmd = &cobra.Command{
	Use:   "get <uri> [path]",
	Short: "Read a Value from a bound data source and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkMinArgs(args, 1, "nodelctl get <uri> [path]"); err != nil {
			return err
		}
		ctx := context.Background()
		root, err := uri.Bind(args[0])
		if err != nil {
			return err
		}
		target := root
		if len(args) > 1 {
			p, err := path.Parse(args[1])
			if err != nil {
				return err
			}
			target, err = p.Get(ctx, root)
			if err != nil {
				return err
			}
		}
		s, err := serialize.JSON(ctx, target, serialize.DefaultOptions())
		if err != nil {
			return err
		}
		printInfo("%s\n", s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
