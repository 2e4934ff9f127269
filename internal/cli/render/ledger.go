package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LedgerRenderer renders ledger listings, checks and prunes
type LedgerRenderer struct {
	out io.Writer
}

// NewLedgerRenderer creates a new ledger renderer
func NewLedgerRenderer(out io.Writer) *LedgerRenderer {
	return &LedgerRenderer{out: out}
}

// RenderLedger renders all records of a network grouped by type
func (r *LedgerRenderer) RenderLedger(result *usecase.ListLedgerResult) error {
	if len(result.Records) == 0 {
		fmt.Fprintf(r.out, "No records in the %s ledger\n", result.Network)
		return nil
	}

	fmt.Fprintf(r.out, "%s\n\n", networkStyle.Sprintf(" %s ", result.Network))

	groups := lo.GroupBy(result.Records, func(rec models.Record) models.RecordType { return rec.Type() })
	for _, recordType := range []models.RecordType{models.UpgradeableRecordType, models.PlainRecordType, models.PresetRecordType} {
		records := groups[recordType]
		if len(records) == 0 {
			continue
		}

		fmt.Fprintln(r.out, headerStyle.Sprintf("%s (%d)", sectionTitle(recordType), len(records)))
		rows := make([]table.Row, 0, len(records))
		for _, rec := range records {
			rows = append(rows, recordRow(rec))
		}
		fmt.Fprintln(r.out, renderTable(rows))
		fmt.Fprintln(r.out)
	}

	fmt.Fprintln(r.out, faintStyle.Sprintf("%d record(s)", result.Summary.Total))
	return nil
}

// RenderVerify renders the code checks of every record
func (r *LedgerRenderer) RenderVerify(result *usecase.VerifyLedgerResult) error {
	if len(result.Checks) == 0 {
		fmt.Fprintf(r.out, "No records in the %s ledger\n", result.Network)
		return nil
	}

	rows := make([]table.Row, 0, len(result.Checks))
	for _, check := range result.Checks {
		header := check.Record.Header()
		status := okStyle.Sprint("✓")
		detail := ""
		switch {
		case check.Error != nil:
			status = errStyle.Sprint("✗")
			detail = check.Error.Error()
		case !check.HasCode:
			status = errStyle.Sprint("✗")
			detail = "no code at address"
		case check.Record.Type() == models.UpgradeableRecordType && !check.ImplementationHasCode:
			status = errStyle.Sprint("✗")
			detail = "no code at implementation"
		}
		rows = append(rows, table.Row{status, nameStyle.Sprint(header.Name), addressStyle.Sprint(header.Address.Hex()), faintStyle.Sprint(detail)})
	}
	fmt.Fprintln(r.out, renderTable(rows))
	fmt.Fprintln(r.out)

	if result.Missing > 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d of %d record(s) have no code on %s", result.Missing, len(result.Checks), result.Network)))
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("All %d record(s) verified on %s", len(result.Checks), result.Network)))
	return nil
}

// RenderPruned renders the records removed from the ledger
func (r *LedgerRenderer) RenderPruned(result *usecase.PruneLedgerResult) error {
	if len(result.Removed) == 0 {
		fmt.Fprintln(r.out, "Nothing to prune")
		return nil
	}

	verb := "Removed"
	if result.DryRun {
		verb = "Would remove"
	}
	fmt.Fprintf(r.out, "%s %d record(s) from %s:\n", verb, len(result.Removed), result.Network)
	for _, rec := range result.Removed {
		header := rec.Header()
		fmt.Fprintf(r.out, "  - %s %s %s\n", nameStyle.Sprint(header.Name), addressStyle.Sprint(header.Address.Hex()), faintStyle.Sprintf("(%s)", rec.Type()))
	}
	return nil
}

func recordRow(rec models.Record) table.Row {
	header := rec.Header()
	row := table.Row{nameStyle.Sprint(header.Name), addressStyle.Sprint(header.Address.Hex()), "", ""}
	if block, ok := models.DeployedAtBlock(rec); ok {
		row[2] = faintStyle.Sprint("block " + strconv.FormatUint(block, 10))
	}
	if up, ok := rec.(models.UpgradeableRecord); ok {
		row[3] = faintStyle.Sprintf("impl %s admin %s", up.Implementation.Hex(), up.Admin.Hex())
	}
	return row
}

func sectionTitle(recordType models.RecordType) string {
	return cases.Title(language.English).String(string(recordType))
}

// renderTable renders borderless left-aligned rows
func renderTable(rows []table.Row) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingLeft:  "  ",
		PaddingRight: " ",
	}

	if len(rows) > 0 {
		configs := make([]table.ColumnConfig, len(rows[0]))
		for i := range configs {
			configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft}
		}
		t.SetColumnConfigs(configs)
	}
	for _, row := range rows {
		t.AppendRow(row)
	}
	return t.Render()
}
