package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/firewoodbank/fwb/internal/inventory"
	"github.com/firewoodbank/fwb/internal/models"
)

func newInventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory commands",
	}

	cmd.AddCommand(newInventoryListCmd())
	cmd.AddCommand(newInventoryLowStockCmd())
	return cmd
}

func newInventoryListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			items, err := inventory.List(gormDB)
			if err != nil {
				return err
			}
			printItems(cmd, items)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	return cmd
}

func newInventoryLowStockCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List items at or below their reorder threshold",
		Long:  "Free stock is on-hand minus reserved; items whose free stock is at or below the reorder threshold appear here.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			items, err := inventory.LowStock(gormDB)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No items need reordering.")
				return nil
			}
			printItems(cmd, items)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fwb.yaml", "path to config file")
	return cmd
}

func printItems(cmd *cobra.Command, items []models.InventoryItem) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No inventory items found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tON HAND\tRESERVED\tFREE\tUNIT")
	for _, it := range items {
		free := it.QuantityOnHand - it.ReservedQuantity
		freeStr := fmt.Sprintf("%.2f", free)
		if free <= it.ReorderThreshold {
			freeStr = color.RedString(freeStr)
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%s\t%s\n",
			truncate(it.Name, 30), it.Category, it.QuantityOnHand, it.ReservedQuantity, freeStr, it.Unit)
	}
	w.Flush()
}
