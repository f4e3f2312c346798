package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/nodel-go/nodel/serialize"
	"github.com/nodel-go/nodel/uri"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <uri> <out-file>",
	Short: "Serialize a bound data source's full content to a local file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkArgs(args, 2, "nodelctl export <uri> <out-file>"); err != nil {
			return err
		}
		ctx := context.Background()
		root, err := uri.Bind(args[0])
		if err != nil {
			return err
		}
		var text string
		switch exportFormat {
		case "csv":
			text, err = serialize.CSV(ctx, root)
		default:
			text, err = serialize.JSON(ctx, root, serialize.DefaultOptions())
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], []byte(text), 0o644); err != nil {
			return err
		}
		printVerbose("exported %s -> %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(exportCmd)
}
