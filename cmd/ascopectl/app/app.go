package app

import (
	"fmt"
	"os"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/autoscope-io/autoscope/internal/ctl"
)

type rootOptions struct {
	server  string
	timeout time.Duration
}

// NewCtlCommand builds the ascopectl root command with all subcommands.
func NewCtlCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "ascopectl",
		Short:         "Inspect a running ascope-hub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.server, "server", "s", "http://localhost:8080", "Base URL of the ascope-hub API.")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout.")

	cmd.AddCommand(
		newEntitiesCommand(opts),
		newGetCommand(opts),
		newDataCommand(opts),
		newFaultsCommand(opts),
		newCategoriesCommand(opts),
		newFilesCommand(opts),
		newDownloadCommand(opts),
	)
	return cmd
}

func (o *rootOptions) client() *ctl.Client {
	return ctl.NewClient(o.server, o.timeout)
}

func newEntitiesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "entities <collection>",
		Short: "List the entities of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := opts.client().ListEntities(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "NAME", "HREF")
			for _, ref := range refs {
				table.AddRow(ref.ID, ref.Name, ref.Href)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Show one entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := opts.client().GetEntity(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID:", entity.ID)
			table.AddRow("Name:", entity.Name)
			if entity.Architecture != "" {
				table.AddRow("Architecture:", entity.Architecture)
			}
			if len(entity.AreaIDs) > 0 {
				table.AddRow("Areas:", fmt.Sprintf("%v", entity.AreaIDs))
			}
			if len(entity.ComponentIDs) > 0 {
				table.AddRow("Components:", fmt.Sprintf("%v", entity.ComponentIDs))
			}
			if entity.HostComponentID != "" {
				table.AddRow("Host component:", entity.HostComponentID)
			}
			if len(entity.BulkCategories) > 0 {
				table.AddRow("Bulk categories:", fmt.Sprintf("%v", entity.BulkCategories))
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newDataCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "data <collection> <id> [data-id]",
		Short: "List an entity's data values, or read a single one",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()

			if len(args) == 3 {
				value, err := client.GetData(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value.String())
				return nil
			}

			entries, err := client.ListData(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "CATEGORY", "VALUE")
			for _, entry := range entries {
				table.AddRow(entry.ID, entry.Category, entry.Value.String())
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newFaultsCommand(opts *rootOptions) *cobra.Command {
	var (
		status   string
		severity int
		scope    string
	)

	cmd := &cobra.Command{
		Use:   "faults <collection> <id>",
		Short: "List an entity's fault memory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := ctl.FaultQuery{Status: status, Scope: scope}
			if cmd.Flags().Changed("severity") {
				q.Severity = &severity
			}

			faults, err := opts.client().ListFaults(cmd.Context(), args[0], args[1], q)
			if err != nil {
				return err
			}

			table := uitable.New()
			table.MaxColWidth = 60
			table.AddRow("CODE", "NAME", "SEVERITY", "STATUS", "COUNT", "DETECTED")
			for _, f := range faults {
				table.AddRow(f.Code, f.Name, f.Severity, string(f.Status.AggregatedStatus),
					f.OccurrenceCount, f.DetectedAt.Format(time.RFC3339))
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by aggregated status (active, inactive, pending, confirmed).")
	cmd.Flags().IntVar(&severity, "severity", 0, "Filter by exact severity.")
	cmd.Flags().StringVar(&scope, "scope", "", "Fault scope selector.")
	return cmd
}

func newCategoriesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories <collection> <id>",
		Short: "List an entity's bulk-data categories",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := opts.client().ListBulkCategories(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			for _, category := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), category)
			}
			return nil
		},
	}
}

func newFilesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "files <collection> <id> <category>",
		Short: "List the artifacts of a bulk-data category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := opts.client().ListBulkFiles(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("NAME", "SIZE", "MODIFIED")
			for _, f := range files {
				table.AddRow(f.Name, f.Size, f.ModTime.Format(time.RFC3339))
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newDownloadCommand(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <collection> <id> <category> <file>",
		Short: "Download one bulk artifact",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			n, err := opts.client().DownloadBulkFile(cmd.Context(), out, args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", n, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the artifact to this file instead of stdout.")
	return cmd
}
