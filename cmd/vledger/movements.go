package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/vledger/internal/cli"
	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func movementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movements",
		Short: "Inspect saved movements",
		Long: `Movements are the rows saved by 'vledger classify --save'. Each save is a
batch identified by the run id printed when it was saved.`,
	}

	cmd.AddCommand(movementsListCmd())
	cmd.AddCommand(movementsDeleteBatchCmd())

	return cmd
}

func movementsListCmd() *cobra.Command {
	var company, from, to, batch string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a company's saved movements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}

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

			movements, err := store.ListMovements(ctx, c.ID, service.MovementFilter{
				StartDate: start,
				EndDate:   end,
				BatchID:   batch,
				Limit:     limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list movements: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(movements) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No movements found."))
				return nil
			}

			total := decimal.Zero
			rows := make([][]string, 0, len(movements))
			for _, m := range movements {
				amount := decimal.NewFromFloat(m.Amount)
				total = total.Add(amount)
				rows = append(rows, []string{
					strconv.FormatInt(m.ID, 10),
					m.MovementDate.Format(model.DateLayout),
					m.Description,
					m.DebitAccount,
					m.CreditAccount,
					cli.FormatAmount(amount),
					m.BatchID,
				})
			}

			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Movements of %s (%d)", c.Name, len(movements))))
			fmt.Fprintln(out, cli.RenderTable(
				[]string{"ID", "Date", "Description", "Debit", "Credit", "Amount", "Batch"}, rows))
			fmt.Fprintln(out, cli.InfoStyle.Render("Total: "+cli.FormatAmount(total)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&company, "company", "c", "", "company id or name (required)")
	cmd.Flags().StringVar(&from, "from", "", "first movement date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last movement date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&batch, "batch", "", "only movements of this batch")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of movements")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func movementsDeleteBatchCmd() *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "delete-batch <batch-id>",
		Short: "Delete every movement saved by one classification",
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

			n, err := store.DeleteMovementBatch(ctx, c.ID, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete batch: %w", err)
			}
			if n == 0 {
				return common.NewUserError(fmt.Sprintf("Batch %s has no movements for %s", args[0], c.Name), common.ErrNotFound)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %d movements", n)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&company, "company", "c", "", "company id or name (required)")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}
