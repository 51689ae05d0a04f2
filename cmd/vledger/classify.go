package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/Veraticus/vledger/internal/bookkeeping"
	"github.com/Veraticus/vledger/internal/cli"
	"github.com/Veraticus/vledger/internal/config"
	"github.com/Veraticus/vledger/internal/export"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/service"
	"github.com/Veraticus/vledger/internal/sheets"
	"github.com/Veraticus/vledger/internal/statement"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newResultWriter builds the Google Sheets publisher. Tests replace it.
var newResultWriter = func(ctx context.Context) (service.ResultWriter, error) {
	return sheets.NewWriter(ctx, config.LoadSheetsConfig(viper.GetViper()), slog.Default())
}

type classifyFlags struct {
	company       string
	output        string
	csvOutput     string
	sheets        bool
	save          bool
	showUnmatched bool
	noProgress    bool
}

func classifyCmd() *cobra.Command {
	var flags classifyFlags

	cmd := &cobra.Command{
		Use:   "classify <statement>",
		Short: "Assign debit and credit accounts to a bank statement",
		Long: `Classify every row of a bank statement (.csv, .xlsx or .ofx) against a
company's references and export the result as a spreadsheet.

The description, date and amount columns are found by name. Each row takes
the accounts of the first reference whose keyword matches its description;
rows nothing matches are exported with empty account columns.`,
		Example: `  vledger classify extrato.xlsx --company "Padaria Central"
  vledger classify extrato.csv -c 3 --mode whole-word --save
  vledger classify extrato.ofx -c 3 --csv saida.csv --sheets`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.company, "company", "c", "", "company id or name (required)")
	f.StringVarP(&flags.output, "output", "o", "", "xlsx output path (default: Vledger_<timestamp>.xlsx)")
	f.StringVar(&flags.csvOutput, "csv", "", "also write the result as CSV to this path")
	f.BoolVar(&flags.sheets, "sheets", false, "also publish the result to Google Sheets")
	f.BoolVar(&flags.save, "save", false, "save the classified rows as movements")
	f.BoolVar(&flags.showUnmatched, "show-unmatched", false, "list the rows no reference matched")
	f.BoolVar(&flags.noProgress, "no-progress", false, "hide the progress bar")
	f.String("mode", "", "match mode: contains, whole-word or regex")
	f.Bool("case-sensitive", false, "match keywords case-sensitively")
	f.String("order", "", "reference scan order: insertion or alphabetical")
	f.String("number-format", "", "amount format: auto (1.234,56) or us (1,234.56)")
	f.Int("chunk-size", config.DefaultChunkSize, "rows per parallel chunk (0 classifies in one pass)")
	_ = cmd.MarkFlagRequired("company")

	_ = viper.BindPFlag(config.KeyClassifyMode, f.Lookup("mode"))
	_ = viper.BindPFlag(config.KeyClassifyCaseSensitive, f.Lookup("case-sensitive"))
	_ = viper.BindPFlag(config.KeyClassifyOrder, f.Lookup("order"))
	_ = viper.BindPFlag(config.KeyClassifyNumberFormat, f.Lookup("number-format"))
	_ = viper.BindPFlag(config.KeyClassifyChunkSize, f.Lookup("chunk-size"))

	return cmd
}

func runClassify(cmd *cobra.Command, path string, flags classifyFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	stmt, err := statement.Open(ctx, path)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	company, err := resolveCompany(ctx, store, flags.company)
	if err != nil {
		return err
	}

	opts := []bookkeeping.Option{
		bookkeeping.WithChunkSize(cfg.ChunkSize),
		bookkeeping.WithReferenceOrder(cfg.ReferenceOrder),
	}
	if !flags.noProgress && cfg.ChunkSize > 0 {
		opts = append(opts, bookkeeping.WithProgress(cli.NewProgress(cmd.ErrOrStderr())))
	}
	svc := bookkeeping.NewService(store, opts...)

	run, err := svc.Classify(ctx, company.ID, stmt, cfg.Options)
	if err != nil {
		return err
	}

	printRun(out, company, run, cfg.Options)
	if flags.showUnmatched {
		printUnmatched(out, run.Result)
	}

	output := flags.output
	if output == "" {
		output = export.FileName(run.ProcessedAt)
	}
	if err := writeFile(output, func(w io.Writer) error { return export.WriteXLSX(w, run.Result) }); err != nil {
		return err
	}
	fmt.Fprintln(out, cli.FormatSuccess("Wrote "+output))

	if flags.csvOutput != "" {
		if err := writeFile(flags.csvOutput, func(w io.Writer) error { return export.WriteCSV(w, run.Result) }); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Wrote "+flags.csvOutput))
	}

	if flags.sheets {
		writer, err := newResultWriter(ctx)
		if err != nil {
			return fmt.Errorf("failed to set up Google Sheets export: %w", err)
		}
		if err := writer.Write(ctx, run.Result); err != nil {
			return fmt.Errorf("failed to publish to Google Sheets: %w", err)
		}
		fmt.Fprintln(out, cli.FormatSuccess("Published to Google Sheets"))
	}

	if flags.save {
		n, err := svc.Save(ctx, run)
		if err != nil {
			// The exported files are already written; the user can re-run with --save.
			return fmt.Errorf("classification exported but not saved: %w", err)
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved %d movements (batch %s)", n, run.ID)))
	}

	return nil
}

func printRun(out io.Writer, company *model.Company, run *bookkeeping.Run, opts model.Options) {
	result := run.Result
	roles := result.Columns

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s: %s", company.Name, run.Source)))
	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("mode %s, case-sensitive %t", opts.Mode, opts.CaseSensitive)))
	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("description %q, date %s, amount %s",
		roles.Description, roleName(roles.Date), roleName(roles.Amount))))

	for _, warning := range result.Warnings {
		fmt.Fprintln(out, cli.FormatWarning(warning))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderSummary(result.Summary()))
}

func printUnmatched(out io.Writer, result *model.ClassificationResult) {
	if len(result.Unmatched) == 0 {
		return
	}

	rows := make([][]string, 0, len(result.Unmatched))
	for i, row := range result.Unmatched {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), row.DateString(), row.Description, strconv.FormatFloat(row.Amount, 'f', 2, 64),
		})
	}

	fmt.Fprintln(out, cli.FormatTitle("Unmatched rows"))
	fmt.Fprintln(out, cli.RenderTable([]string{"#", "Date", "Description", "Amount"}, rows))
}

func roleName(column string) string {
	if column == "" {
		return "(not found)"
	}
	return strconv.Quote(column)
}
