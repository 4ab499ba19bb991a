package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newNotesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Inspect note materials and change their visibility",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every note material",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withServices(cmd.Context(), func(svc *services) error {
				notes, err := svc.catalog.ListAllMaterials(cmd.Context())
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return opts.printJSON(cmd.OutOrStdout(), notes)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tSTATUS\tSUBJECT\tSUBCATEGORY\tCHAPTER")
				for _, n := range notes {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Status, n.SubjectName, n.SubcategoryName, n.Chapter)
				}
				return tw.Flush()
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <note-id>",
		Short: "Flip a note between published and hidden",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}
			return opts.withServices(cmd.Context(), func(svc *services) error {
				note, err := svc.catalog.ToggleStatus(cmd.Context(), id, nil)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return opts.printJSON(cmd.OutOrStdout(), note)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "note %s is now %s\n", note.ID, note.Status)
				return nil
			})
		},
	}

	cmd.AddCommand(list, toggle)
	return cmd
}
