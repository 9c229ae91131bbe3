package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-docstore/pkg/client"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get INDEX VALUE",
		Short: "Print the document matching VALUE on INDEX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			doc, err := c.RetrieveDocument(cmd.Context(), args[0], parseValue(args[1]))
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("no document matches %q on index %s", args[1], args[0])
			}
			return printJSON(doc)
		},
	}
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count INDEX VALUE",
		Short: "Count the documents matching VALUE on INDEX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			count, err := c.GetDocumentsCount(cmd.Context(), args[0], parseValue(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, count)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var (
		size  int
		after string
	)
	cmd := &cobra.Command{
		Use:   "list COLLECTION",
		Short: "Print one page of the documents in COLLECTION",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			page, err := c.RetrieveDocumentsPage(cmd.Context(), args[0], client.WithPageSize(size), client.WithAfter(after))
			if err != nil {
				return err
			}
			return printJSON(page)
		},
	}
	cmd.Flags().IntVar(&size, "size", 64, "page size")
	cmd.Flags().StringVar(&after, "after", "", "cursor returned by a previous page")
	return cmd
}

func newClient() (*client.Client, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateClient(); err != nil {
		return nil, err
	}
	return client.New(cfg.Client, client.WithLogger(logger))
}

// parseValue treats numeric arguments as numbers, everything else as a string
func parseValue(arg string) interface{} {
	if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}
	switch arg {
	case "true":
		return true
	case "false":
		return false
	}
	return arg
}

func printJSON(v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}

