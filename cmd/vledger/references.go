package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Veraticus/vledger/internal/cli"
	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/export"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/statement"
	"github.com/Veraticus/vledger/internal/storage"
	"github.com/spf13/cobra"
)

// defaultTemplateName is the file written by 'references template'.
const defaultTemplateName = "referencias_modelo.xlsx"

func referencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "references",
		Aliases: []string{"refs"},
		Short:   "Manage keyword references",
		Long: `References map a keyword to a debit and credit account.

When several references match the same row, the first one in scan order
wins. Scan order is insertion order unless classify.reference_order is set
to alphabetical.`,
	}

	cmd.AddCommand(referencesListCmd())
	cmd.AddCommand(referencesAddCmd())
	cmd.AddCommand(referencesEditCmd())
	cmd.AddCommand(referencesDeleteCmd())
	cmd.AddCommand(referencesImportCmd())
	cmd.AddCommand(referencesTemplateCmd())

	return cmd
}

func referencesListCmd() *cobra.Command {
	var company, order string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a company's references in scan order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			c, err := resolveCompany(ctx, store, company)
			if err != nil {
				return err
			}

			scanOrder, ok := model.ParseReferenceOrder(order)
			if !ok {
				return common.NewUserError(fmt.Sprintf("Unknown order %q (use insertion or alphabetical)", order), nil)
			}

			refs, err := store.ListReferences(ctx, c.ID, scanOrder)
			if err != nil {
				return fmt.Errorf("failed to list references: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render(fmt.Sprintf(
					"%s has no references. Use 'vledger references add' or 'vledger references import'.", c.Name)))
				return nil
			}

			rows := make([][]string, 0, len(refs))
			for _, ref := range refs {
				rows = append(rows, []string{strconv.Itoa(ref.ID), ref.Name, ref.DebitAccount, ref.CreditAccount})
			}

			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("References of %s (%d)", c.Name, len(refs))))
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Keyword", "Debit", "Credit"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&company, "company", "c", "", "company id or name (required)")
	cmd.Flags().StringVar(&order, "order", "", "scan order: insertion or alphabetical")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func referencesAddCmd() *cobra.Command {
	var company, debit, credit string

	cmd := &cobra.Command{
		Use:   "add <keyword>",
		Short: "Add a reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			c, err := resolveCompany(ctx, store, company)
			if err != nil {
				return err
			}

			ref := &model.Reference{CompanyID: c.ID, Name: args[0], DebitAccount: debit, CreditAccount: credit}
			if err := store.CreateReference(ctx, ref); err != nil {
				return referenceError(ref, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Added %q → D %s / C %s (id %d)", ref.Name, ref.DebitAccount, ref.CreditAccount, ref.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&company, "company", "c", "", "company id or name (required)")
	cmd.Flags().StringVarP(&debit, "debit", "d", "", "debit account code")
	cmd.Flags().StringVarP(&credit, "credit", "e", "", "credit account code")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func referencesEditCmd() *cobra.Command {
	var name, debit, credit string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			ref, err := store.GetReference(ctx, id)
			if err != nil {
				return referenceError(&model.Reference{ID: id}, err)
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				ref.Name = name
			}
			if flags.Changed("debit") {
				ref.DebitAccount = debit
			}
			if flags.Changed("credit") {
				ref.CreditAccount = credit
			}

			if err := store.UpdateReference(ctx, ref); err != nil {
				return referenceError(ref, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"Updated %q → D %s / C %s", ref.Name, ref.DebitAccount, ref.CreditAccount)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new keyword")
	cmd.Flags().StringVarP(&debit, "debit", "d", "", "new debit account code")
	cmd.Flags().StringVarP(&credit, "credit", "e", "", "new credit account code")

	return cmd
}

func referencesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.DeleteReference(ctx, id); err != nil {
				return referenceError(&model.Reference{ID: id}, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted reference %d", id)))
			return nil
		},
	}
}

func referencesImportCmd() *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk import references from a CSV or XLSX file",
		Long: `Import references from a spreadsheet with the columns Nome, Conta_D and
Conta_E (any letter case). Names that already exist for the company are
skipped, never merged. Run 'vledger references template' for a sample file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			refs, err := statement.OpenReferences(ctx, args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			c, err := resolveCompany(ctx, store, company)
			if err != nil {
				return err
			}

			stats, err := store.ImportReferences(ctx, c.ID, refs)
			if err != nil {
				return fmt.Errorf("failed to import references: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d references into %s", stats.Inserted, c.Name)))
			if stats.Skipped > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %d rows (blank or already registered)", stats.Skipped)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&company, "company", "c", "", "company id or name (required)")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func referencesTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template [file]",
		Short: "Write a sample reference spreadsheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultTemplateName
			if len(args) == 1 {
				path = args[0]
			}

			if err := writeFile(path, export.WriteReferenceTemplate); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote reference template to "+path))
			return nil
		},
	}
}

// referenceError turns storage errors into messages a user can act on.
func referenceError(ref *model.Reference, err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateEntry):
		return common.NewUserError(fmt.Sprintf("A reference named %q already exists for this company", ref.Keyword()), err)
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError(fmt.Sprintf("Reference %d not found", ref.ID), err)
	case errors.Is(err, storage.ErrInvalidReference):
		return common.NewUserError("A reference needs a non-empty keyword", err)
	}
	return fmt.Errorf("reference operation failed: %w", err)
}

// writeFile creates path and streams content into it.
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
