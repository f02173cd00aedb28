package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

func (c *cli) listCmd() *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, ctx, cancel := c.connect(cmd)
			defer cancel()

			items, err := api.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list items: %w", err)
			}

			if pendingOnly {
				pending := items[:0]
				for _, item := range items {
					if !item.IsPurchased {
						pending = append(pending, item)
					}
				}
				items = pending
			}

			printItems(cmd.OutOrStdout(), items)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pendingOnly, "pending", "p", false, "hide purchased items")
	return cmd
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find items whose name or notes contain query",
		Long: `Search is case-insensitive and matches item names and notes.

Examples:
  shoppinglist search milk
  shoppinglist search "pink lady"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, ctx, cancel := c.connect(cmd)
			defer cancel()

			items, err := api.Search(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to search items: %w", err)
			}

			printItems(cmd.OutOrStdout(), items)
			return nil
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	var (
		quantity int
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Append an item to the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("name cannot be empty")
			}

			input := model.ItemInput{Name: name, Quantity: quantity}
			if cmd.Flags().Changed("notes") {
				input.Notes = model.StringPtr(notes)
			}

			api, ctx, cancel := c.connect(cmd)
			defer cancel()

			item, err := api.Add(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to add item: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", item.Name, item.ID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "quantity")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-text notes")
	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|position>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, ctx, cancel := c.connect(cmd)
			defer cancel()

			id, err := resolveID(ctx, api, args[0])
			if err != nil {
				return err
			}

			item, err := api.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get item: %w", err)
			}

			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}
}

func (c *cli) updateCmd() *cobra.Command {
	var (
		name       string
		quantity   int
		notes      string
		clearNotes bool
	)

	cmd := &cobra.Command{
		Use:   "update <id|position>",
		Short: "Change the name, quantity or notes of an item",
		Long: `Only the flags given are changed; the rest keep their current value.

Examples:
  shoppinglist update 2 --qty 3
  shoppinglist update 2 --notes "organic"
  shoppinglist update 2 --clear-notes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if clearNotes && flags.Changed("notes") {
				return fmt.Errorf("--notes and --clear-notes are mutually exclusive")
			}

			api, ctx, cancel := c.connect(cmd)
			defer cancel()

			id, err := resolveID(ctx, api, args[0])
			if err != nil {
				return err
			}

			current, err := api.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get item: %w", err)
			}

			input := model.ItemInput{Name: current.Name, Quantity: current.Quantity, Notes: current.Notes}
			if flags.Changed("name") {
				input.Name = name
			}
			if flags.Changed("qty") {
				input.Quantity = quantity
			}
			switch {
			case flags.Changed("notes"):
				input.Notes = model.StringPtr(notes)
			case clearNotes:
				input.Notes = nil
			}

			item, err := api.Update(ctx, id, input)
			if err != nil {
				return fmt.Errorf("failed to update item: %w", err)
			}

			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().IntVarP(&quantity, "qty", "q", 0, "new quantity")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "new notes")
	cmd.Flags().BoolVar(&clearNotes, "clear-notes", false, "remove the notes")
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|position>",
		Aliases: []string{"rm"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, ctx, cancel := c.connect(cmd)
			defer cancel()

			id, err := resolveID(ctx, api, args[0])
			if err != nil {
				return err
			}

			if err := api.Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete item: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

func (c *cli) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id|position>",
		Short: "Mark an item purchased, or not purchased again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, ctx, cancel := c.connect(cmd)
			defer cancel()

			id, err := resolveID(ctx, api, args[0])
			if err != nil {
				return err
			}

			item, err := api.TogglePurchased(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to toggle item: %w", err)
			}

			state := "not purchased"
			if item.IsPurchased {
				state = "purchased"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", item.Name, state)
			return nil
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every purchased item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, ctx, cancel := c.connect(cmd)
			defer cancel()

			removed, err := api.ClearPurchased(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear purchased items: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d purchased item(s)\n", removed)
			return nil
		},
	}
}

func (c *cli) reorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id|position>...",
		Short: "Put the list in a new order",
		Long: `Reorder takes every item exactly once, in the desired order.

Examples:
  shoppinglist reorder 3 1 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, ctx, cancel := c.connect(cmd)
			defer cancel()

			// Positions refer to the order before the move.
			ids, err := resolveIDs(ctx, api, args)
			if err != nil {
				return err
			}

			items, err := api.Reorder(ctx, ids)
			if err != nil {
				return fmt.Errorf("failed to reorder items: %w", err)
			}

			printItems(cmd.OutOrStdout(), items)
			return nil
		},
	}
}
