package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/firewoodbank/fwb/internal/audit"
	"github.com/firewoodbank/fwb/internal/inventory"
	"github.com/firewoodbank/fwb/internal/notify"
	"github.com/firewoodbank/fwb/internal/workorder"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Work order management commands",
	}

	cmd.AddCommand(newOrderCreateCmd())
	cmd.AddCommand(newOrderListCmd())
	cmd.AddCommand(newOrderShowCmd())
	cmd.AddCommand(newOrderTransitionCmd())
	cmd.AddCommand(newOrderHistoryCmd())
	cmd.AddCommand(newOrderAssignCmd())
	return cmd
}

func newOrderCreateCmd() *cobra.Command {
	var (
		configPath string
		clientID   string
		clientNum  string
		clientName string
		cords      float64
		pickup     bool
		date       string
		directions string
		notes      string
		createdBy  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new draft work order",
		Long:  "Creates a draft delivery or pickup work order. Scheduling happens via 'order transition'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := workorder.CreateOpts{
				ClientID:        clientID,
				ClientNumber:    clientNum,
				ClientName:      clientName,
				IsPickup:        pickup,
				Directions:      directions,
				Notes:           notes,
				CreatedByUserID: createdBy,
			}
			if pickup {
				opts.PickupQuantityCords = cords
			} else {
				opts.DeliverySizeCords = cords
			}
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("parse --date: %w", err)
				}
				opts.ScheduledDate = &d
			}
			return runOrderCreate(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	cmd.Flags().StringVar(&clientID, "client-id", "", "client record ID")
	cmd.Flags().StringVar(&clientNum, "client-number", "", "client intake number")
	cmd.Flags().StringVar(&clientName, "client-name", "", "client name (required)")
	cmd.Flags().Float64Var(&cords, "cords", 0, "cords to deliver or pick up (required)")
	cmd.Flags().BoolVar(&pickup, "pickup", false, "client picks up at the yard instead of delivery")
	cmd.Flags().StringVar(&date, "date", "", "scheduled date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&directions, "directions", "", "driving directions")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "creating user ID")
	cmd.MarkFlagRequired("client-name")
	cmd.MarkFlagRequired("cords")
	return cmd
}

func runOrderCreate(cmd *cobra.Command, configPath string, opts workorder.CreateOpts) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	order, err := workorder.Create(gormDB, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created work order %s\n", order.ID)
	fmt.Fprintf(out, "Client: %s\n", order.ClientName)
	fmt.Fprintf(out, "Status: %s\n", colorStatus(order.Status))
	return nil
}

func newOrderListCmd() *cobra.Command {
	var (
		configPath string
		status     string
		clientID   string
		assignee   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders",
		Long:  "Lists work orders with optional filters, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderList(cmd, configPath, workorder.ListFilters{
				Status:     status,
				ClientID:   clientID,
				AssigneeID: assignee,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&clientID, "client-id", "", "filter by client")
	cmd.Flags().StringVar(&assignee, "assignee", "", "filter by assigned user")
	return cmd
}

func runOrderList(cmd *cobra.Command, configPath string, filters workorder.ListFilters) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	orders, err := workorder.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(orders) == 0 {
		fmt.Fprintln(out, "No work orders found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLIENT\tSTATUS\tCORDS\tSCHEDULED")
	for _, o := range orders {
		sched := "-"
		if o.ScheduledDate != nil {
			sched = o.ScheduledDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n",
			shortID(o.ID), truncate(o.ClientName, 30), colorStatus(o.Status), orderCords(&o), sched)
	}
	w.Flush()
	return nil
}

func newOrderShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show work order details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	return cmd
}

func runOrderShow(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	order, err := workorder.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %s\n", order.ID)
	fmt.Fprintf(out, "Client:      %s\n", order.ClientName)
	if order.ClientNumber != "" {
		fmt.Fprintf(out, "Client #:    %s\n", order.ClientNumber)
	}
	fmt.Fprintf(out, "Status:      %s\n", colorStatus(order.Status))
	if order.IsPickup {
		fmt.Fprintf(out, "Pickup:      %.2f cords\n", order.PickupQuantityCords)
	} else {
		fmt.Fprintf(out, "Delivery:    %.2f cords\n", order.DeliverySizeCords)
	}
	if order.ScheduledDate != nil {
		fmt.Fprintf(out, "Scheduled:   %s\n", order.ScheduledDate.Format("2006-01-02"))
	}
	if order.Mileage != nil {
		fmt.Fprintf(out, "Mileage:     %.1f\n", *order.Mileage)
	}
	if order.WorkHours != nil {
		fmt.Fprintf(out, "Work hours:  %.1f\n", *order.WorkHours)
	}
	if len(order.Assignees) > 0 {
		names := make([]string, 0, len(order.Assignees))
		for _, a := range order.Assignees {
			name := a.User.Name
			if name == "" {
				name = a.UserID
			}
			names = append(names, name)
		}
		fmt.Fprintf(out, "Assignees:   %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(out, "Created:     %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))
	if order.CompletedAt != nil {
		fmt.Fprintf(out, "Completed:   %s\n", order.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	if order.CancelledAt != nil {
		fmt.Fprintf(out, "Cancelled:   %s\n", order.CancelledAt.Format("2006-01-02 15:04:05"))
	}

	if order.Directions != "" {
		fmt.Fprintf(out, "\nDirections:\n%s\n", order.Directions)
	}
	if order.Notes != "" {
		fmt.Fprintf(out, "\nNotes:\n%s\n", order.Notes)
	}
	return nil
}

func newOrderTransitionCmd() *cobra.Command {
	var (
		configPath string
		actorID    string
		actorRole  string
		mileage    float64
		workHours  float64
	)

	cmd := &cobra.Command{
		Use:   "transition <id> <status>",
		Short: "Move a work order to a new status",
		Long:  "Applies one status change with validation, inventory adjustment, and history recording. Rejections explain what is missing.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := workorder.TransitionRequest{
				OrderID: args[0],
				To:      workorder.Status(args[1]),
				Actor:   workorder.Actor{ID: actorID, Role: workorder.Role(actorRole)},
			}
			if cmd.Flags().Changed("mileage") {
				req.Mileage = &mileage
			}
			if cmd.Flags().Changed("work-hours") {
				req.WorkHours = &workHours
			}
			return runOrderTransition(cmd, configPath, req)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	cmd.Flags().StringVar(&actorID, "actor", "", "acting user ID (required)")
	cmd.Flags().StringVar(&actorRole, "role", "staff", "acting user role (driver, staff, lead, admin)")
	cmd.Flags().Float64Var(&mileage, "mileage", 0, "round-trip mileage (required for completion)")
	cmd.Flags().Float64Var(&workHours, "work-hours", 0, "volunteer hours (required for completion)")
	cmd.MarkFlagRequired("actor")
	return cmd
}

func runOrderTransition(cmd *cobra.Command, configPath string, req workorder.TransitionRequest) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	coord := &workorder.Coordinator{
		DB:     gormDB,
		Ledger: &inventory.Ledger{WoodCategory: cfg.WoodCategory},
	}
	sender, err := notify.FromConfig(cfg.Notify)
	if err != nil {
		return err
	}
	if sender != nil {
		coord.Notifier = &notify.TransitionNotifier{Sender: sender}
	}

	res, err := coord.Transition(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Work order %s: %s -> %s\n",
		shortID(res.Order.ID), colorStatus(string(res.From)), colorStatus(string(res.To)))
	if !res.InventoryApplied {
		fmt.Fprintln(out, "Note: no firewood inventory item found; stock was not adjusted.")
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", warn)
	}
	return nil
}

func newOrderHistoryCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show a work order's status history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderHistory(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	return cmd
}

func runOrderHistory(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if _, err := workorder.Get(gormDB, id); err != nil {
		return err
	}

	records, err := audit.History(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "No transitions recorded for %s\n", id)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tFROM\tTO\tACTOR\tROLE")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.FromStatus, r.ToStatus, shortID(r.ActorID), r.ActorRole)
	}
	w.Flush()
	return nil
}

func newOrderAssignCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "assign <id> <user-id>...",
		Short: "Replace a work order's assignees",
		Long:  "Replaces the full assignee set. Scheduling requires at least one assignee with a valid driver license.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := workorder.Assign(gormDB, args[0], args[1:]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %d user(s) to %s\n", len(args)-1, shortID(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	return cmd
}
