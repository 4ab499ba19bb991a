package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/pagination"
)

func newOrdersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and complete orders",
	}

	var (
		view   string
		limit  int
		cursor string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			orderView, err := enums.ParseOrderView(view)
			if err != nil {
				return err
			}
			return opts.withServices(cmd.Context(), func(svc *services) error {
				page, err := svc.orders.ListOrders(cmd.Context(), orderView, pagination.Params{Limit: limit, Cursor: cursor})
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return opts.printJSON(cmd.OutOrStdout(), page)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tSTATUS\tNAME\tCLASS\tPAYMENT\tTOTAL\tPLACED")
				for _, o := range page.Orders {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						o.ID, o.Status, o.Name, o.UserClass, o.PaymentMethod, o.TotalPrice.StringFixed(2), o.CreatedAt.Format("2006-01-02 15:04"))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				if page.NextCursor != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "next cursor: %s\n", page.NextCursor)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&view, "view", string(enums.OrderViewActive), "Which orders to list: active or all")
	list.Flags().IntVar(&limit, "limit", pagination.DefaultLimit, "Page size")
	list.Flags().StringVar(&cursor, "cursor", "", "Cursor from a previous page")

	complete := &cobra.Command{
		Use:   "complete <order-id>",
		Short: "Mark an order completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			return opts.withServices(cmd.Context(), func(svc *services) error {
				order, err := svc.orders.MarkCompleted(cmd.Context(), id)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return opts.printJSON(cmd.OutOrStdout(), order)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "order %s is %s\n", order.ID, order.Status)
				return nil
			})
		},
	}

	cmd.AddCommand(list, complete)
	return cmd
}
