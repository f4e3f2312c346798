package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nodel-go/nodel"
	"github.com/nodel-go/nodel/path"
	"github.com/nodel-go/nodel/uri"
)

var setCmd = &cobra.Command{
	Use:   "set <uri> <path> <value>",
	Short: "Write a scalar value at path and save the bound data source",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkArgs(args, 3, "nodelctl set <uri> <path> <value>"); err != nil {
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
		if err := p.Set(ctx, root, scalarFromArg(args[2])); err != nil {
			return err
		}
		if err := root.Save(ctx); err != nil {
			return err
		}
		printVerbose("set %s = %s\n", args[1], args[2])
		return nil
	},
}

// scalarFromArg parses a CLI argument into the most specific nodel
// scalar it looks like: bool, then int, then float, falling back to a
// plain string.
func scalarFromArg(s string) nodel.Value {
	if s == "true" {
		return nodel.Bool(true)
	}
	if s == "false" {
		return nodel.Bool(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return nodel.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return nodel.Float(f)
	}
	return nodel.Str(s)
}

func init() {
	rootCmd.AddCommand(setCmd)
}
