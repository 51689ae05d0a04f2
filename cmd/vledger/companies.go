package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Veraticus/vledger/internal/cli"
	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/spf13/cobra"
)

func companiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Manage companies",
		Long: `Companies own keyword references and saved movements.

Deleting a company also deletes its references and movements.`,
	}

	cmd.AddCommand(companiesListCmd())
	cmd.AddCommand(companiesAddCmd())
	cmd.AddCommand(companiesEditCmd())
	cmd.AddCommand(companiesDeleteCmd())

	return cmd
}

func companiesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			companies, err := store.ListCompanies(ctx)
			if err != nil {
				return fmt.Errorf("failed to list companies: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(companies) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No companies yet. Use 'vledger companies add <name>' to create one."))
				return nil
			}

			rows := make([][]string, 0, len(companies))
			for _, c := range companies {
				rows = append(rows, []string{
					strconv.Itoa(c.ID), c.Name, c.CNPJ, c.Responsible, c.CreatedAt.Format(model.DateLayout),
				})
			}

			fmt.Fprintln(out, cli.FormatTitle("Companies"))
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Name", "CNPJ", "Responsible", "Created"}, rows))
			return nil
		},
	}
}

func companiesAddCmd() *cobra.Command {
	var cnpj, responsible string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			company := &model.Company{Name: args[0], CNPJ: cnpj, Responsible: responsible}
			if err := store.CreateCompany(ctx, company); err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError(fmt.Sprintf("A company named %q already exists", args[0]), err)
				}
				return fmt.Errorf("failed to create company: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created company %q (id %d)", company.Name, company.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&cnpj, "cnpj", "", "company CNPJ")
	cmd.Flags().StringVar(&responsible, "responsible", "", "person responsible for the books")

	return cmd
}

func companiesEditCmd() *cobra.Command {
	var name, cnpj, responsible string

	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Update a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			company, err := resolveCompany(ctx, store, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				company.Name = name
			}
			if flags.Changed("cnpj") {
				company.CNPJ = cnpj
			}
			if flags.Changed("responsible") {
				company.Responsible = responsible
			}

			if err := store.UpdateCompany(ctx, company); err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError(fmt.Sprintf("A company named %q already exists", company.Name), err)
				}
				return fmt.Errorf("failed to update company: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated company %q", company.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&cnpj, "cnpj", "", "new CNPJ")
	cmd.Flags().StringVar(&responsible, "responsible", "", "new responsible person")

	return cmd
}

func companiesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a company with its references and movements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			company, err := resolveCompany(ctx, store, args[0])
			if err != nil {
				return err
			}

			if err := store.DeleteCompany(ctx, company.ID); err != nil {
				return fmt.Errorf("failed to delete company: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted company %q", company.Name)))
			return nil
		},
	}
}
