package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/validate"
	"github.com/spf13/cobra"
)

func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "cat"},
		Short:   "Manage spending categories",
		Long: `List, add, rename and delete spending categories.

The eight default categories can be renamed but never deleted. A category
that still has expenses cannot be deleted either.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(st.Categories))
			for _, c := range st.Categories {
				kind := "custom"
				if c.IsDefault {
					kind = "default"
				}
				rows = append(rows, []string{
					c.ID,
					c.Icon.Glyph() + " " + c.Name,
					c.Color,
					kind,
					strconv.Itoa(category.CountExpenses(st.Expenses, c.ID)),
				})
			}
			fmt.Fprintln(out, cli.FormatTitle("Categories"))
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Name", "Color", "Kind", "Expenses"}, rows))
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var icon, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ic, err := parseIcon(icon, model.IconMoreHorizontal)
			if err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}
			if err := validate.Category(args[0], ic, color, st.Categories, ""); err != nil {
				return err
			}

			c, err := a.store.AddCategory(ctx, args[0], ic, color)
			if err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}
			success(cmd.OutOrStdout(), "Added category %s %s (%s)", c.Icon.Glyph(), cli.InfoStyle.Render(c.Name), c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "icon name (default MoreHorizontal)")
	cmd.Flags().StringVar(&color, "color", model.DefaultCategoryColor, "hex color")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var name, icon, color string

	cmd := &cobra.Command{
		Use:   "update <category>",
		Short: "Rename or restyle a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}
			current, err := resolveCategory(st, args[0])
			if err != nil {
				return err
			}

			var patch model.CategoryPatch
			next := current
			if flags.Changed("name") {
				patch.Name = &name
				next.Name = name
			}
			if flags.Changed("icon") {
				ic, err := parseIcon(icon, current.Icon)
				if err != nil {
					return err
				}
				patch.Icon = &ic
				next.Icon = ic
			}
			if flags.Changed("color") {
				patch.Color = &color
				next.Color = color
			}
			if err := validate.Category(next.Name, next.Icon, next.Color, st.Categories, current.ID); err != nil {
				return err
			}

			c, err := a.store.UpdateCategory(ctx, current.ID, patch)
			if err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}
			success(cmd.OutOrStdout(), "Updated category %s %s", c.Icon.Glyph(), cli.InfoStyle.Render(c.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&icon, "icon", "", "new icon name")
	cmd.Flags().StringVar(&color, "color", "", "new hex color")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <category>",
		Aliases: []string{"rm"},
		Short:   "Delete a custom category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}
			c, err := resolveCategory(st, args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteCategory(ctx, c.ID); err != nil {
				return fmt.Errorf("failed to delete category %s: %w", c.Name, err)
			}
			success(cmd.OutOrStdout(), "Deleted category %s", c.Name)
			return nil
		},
	}
}
