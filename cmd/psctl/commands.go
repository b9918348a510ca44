package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/prestashop"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

// resourcesCmd lists the known resources
func resourcesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the web service resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}
			defer client.Close()

			for _, name := range client.Resources() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// getCmd lists records matching filters
func getCmd(g *globals) *cobra.Command {
	var (
		where   []string
		display []string
		sorts   []string
		limit   int
		offset  int
		shop    int
	)

	cmd := &cobra.Command{
		Use:   "get <resource>",
		Short: "List records of a resource",
		Long: `List records of a resource.

Filters are field=value for equality or field:OPERATOR=v1,v2 for any of
OR, INTERVAL, LITERAL, BEGIN, END, CONTAINS and INNER.

Examples:
  psctl get products --where active=1 --display id,name
  psctl get orders --where "id:INTERVAL=10,20" --sort -id --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}
			defer client.Close()

			q, err := client.Resource(args[0])
			if err != nil {
				return err
			}

			for _, w := range where {
				field, op, values, err := parseWhere(w)
				if err != nil {
					return err
				}
				if op == "" {
					q = q.Where(field, values[0])
				} else {
					q = q.Where(field, op, toArgs(values)...)
				}
			}
			if len(display) > 0 {
				q = q.Select(display...)
			}
			for _, s := range sorts {
				if strings.HasPrefix(s, "-") {
					q = q.SortByDesc(strings.TrimPrefix(s, "-"))
				} else {
					q = q.SortBy(s)
				}
			}
			if limit > 0 {
				q = q.Limit(limit, offset)
			}
			if shop > 0 {
				q = q.Shop(shop)
			}

			records, err := q.Get(cmd.Context())
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Filter as field=value or field:OP=v1,v2 (repeatable)")
	cmd.Flags().StringSliceVarP(&display, "display", "d", nil, "Fields to return")
	cmd.Flags().StringSliceVarP(&sorts, "sort", "s", nil, "Sort fields, prefix with - for descending")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of records")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip (with --limit)")
	cmd.Flags().IntVar(&shop, "shop", 0, "Restrict to one shop")

	return cmd
}

// findCmd fetches one record by id
func findCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "find <resource> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}

			client, err := g.client()
			if err != nil {
				return err
			}
			defer client.Close()

			q, err := client.Resource(args[0])
			if err != nil {
				return err
			}
			record, err := q.Find(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), record.Fields())
		},
	}
}

// schemaCmd shows a resource schema
func schemaCmd(g *globals) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "schema <resource>",
		Short: "Show the schema of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client()
			if err != nil {
				return err
			}
			defer client.Close()

			q, err := client.Resource(args[0])
			if err != nil {
				return err
			}
			record, err := q.Schema(cmd.Context(), name)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), record.Fields())
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "synopsis", "Schema to fetch: synopsis or blank")
	return cmd
}

// deleteCmd removes one record
func deleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}

			client, err := g.client()
			if err != nil {
				return err
			}
			defer client.Close()

			q, err := client.Resource(args[0])
			if err != nil {
				return err
			}
			if err := q.Delete(cmd.Context(), id); err != nil {
				if remote, ok := prestashop.RemoteError(err); ok {
					return fmt.Errorf("%w\n%s", err, remote.Body)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %d\n", q.Descriptor().Name, id)
			return nil
		},
	}
}

// parseWhere splits field=value or field:OP=v1,v2
func parseWhere(expr string) (field, op string, values []string, err error) {
	eq := strings.IndexByte(expr, '=')
	if eq <= 0 {
		return "", "", nil, fmt.Errorf("invalid filter %q, want field=value", expr)
	}
	field, raw := expr[:eq], expr[eq+1:]

	if i := strings.IndexByte(field, ':'); i > 0 {
		field, op = field[:i], field[i+1:]
		return field, op, strings.Split(raw, ","), nil
	}
	return field, "", []string{raw}, nil
}

func toArgs(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func printRecords(w io.Writer, records []*prestashop.Record) error {
	rows := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Fields())
	}
	return printJSON(w, rows)
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
