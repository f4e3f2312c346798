package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodel-go/nodel"
	"github.com/nodel-go/nodel/uri"
)

var treeCmd = &cobra.Command{
	Use:   "tree <uri>",
	Short: "Print a breadth-first tree view of a bound data source",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkArgs(args, 1, "nodelctl tree <uri>"); err != nil {
			return err
		}
		ctx := context.Background()
		root, err := uri.Bind(args[0])
		if err != nil {
			return err
		}
		root.IterTree(ctx, nil, func(path []nodel.Key, val nodel.Value) bool {
			printInfo("%s%s: %s\n", strings.Repeat("  ", len(path)), lastKey(path), val.Kind(ctx))
			return true
		})
		return nil
	},
}

func lastKey(path []nodel.Key) string {
	if len(path) == 0 {
		return "."
	}
	return path[len(path)-1].String()
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
