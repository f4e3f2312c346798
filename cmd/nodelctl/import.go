package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodel-go/nodel"
	csvparser "github.com/nodel-go/nodel/parser/csv"
	jsonparser "github.com/nodel-go/nodel/parser/json"
	"github.com/nodel-go/nodel/uri"
)

var importCmd = &cobra.Command{
	Use:   "import <in-file> <uri>",
	Short: "Parse a local JSON/CSV file and write it into a bound data source",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkArgs(args, 2, "nodelctl import <in-file> <uri>"); err != nil {
			return err
		}
		ctx := context.Background()
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var parsed nodel.Value
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".csv":
			parsed, err = csvparser.Parse(f, csvparser.Options{})
		default:
			parsed, err = jsonparser.Parse(f, jsonparser.Options{})
		}
		if err != nil {
			return err
		}

		root, err := uri.Bind(args[1])
		if err != nil {
			return err
		}
		var copyErr error
		parsed.IterItems(ctx, func(k nodel.Key, v nodel.Value) bool {
			if err := root.Set(ctx, k, v); err != nil {
				copyErr = err
				return false
			}
			return true
		})
		if copyErr != nil {
			return copyErr
		}
		if err := root.Save(ctx); err != nil {
			return err
		}
		printVerbose("imported %s -> %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
