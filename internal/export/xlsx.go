// Package export writes search results to spreadsheet files for hand-off to
// mailing and CRM tooling.
package export

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/prospect"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

var recordHeader = []string{
	"Address", "Owner", "Owner Source", "Mailing Address",
	"Value", "Sale Amount", "Sale Date", "Mortgage Amount",
	"Year Built", "Annual Tax", "Absentee",
}

var groupHeader = []string{
	"Owner", "Mailing Address", "Corporate", "Properties",
	"Total Value", "Total Tax Burden", "Oldest Year Built", "Avg Year Built",
}

// WriteRecords writes one row per property to an XLSX file.
func WriteRecords(path string, records []attom.Property) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Prospects")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	addHeader(sheet, recordHeader)
	for i := range records {
		addRecordRow(sheet, &records[i])
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

// WriteGroups writes investor portfolios: a summary sheet of one row per
// owner group, and a detail sheet of every grouped property.
func WriteGroups(path string, groups []model.InvestorGroup) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Portfolios")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}
	addHeader(summary, groupHeader)

	detail, err := f.AddSheet("Properties")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}
	addHeader(detail, append([]string{"Portfolio Owner"}, recordHeader...))

	for _, g := range groups {
		row := summary.AddRow()
		row.AddCell().Value = g.OwnerName
		row.AddCell().Value = g.MailingAddress
		row.AddCell().SetBool(g.IsCorporate)
		row.AddCell().SetInt(len(g.Properties))
		row.AddCell().SetFloat(g.TotalValue)
		row.AddCell().SetFloat(g.TotalTaxBurden)
		addOptionalInt(row, g.OldestYear)
		addOptionalInt(row, g.AvgYear)

		for i := range g.Properties {
			r := detail.AddRow()
			r.AddCell().Value = g.OwnerName
			fillRecordCells(r, &g.Properties[i])
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func addHeader(sheet *xlsx.Sheet, cols []string) {
	row := sheet.AddRow()
	for _, c := range cols {
		row.AddCell().Value = c
	}
}

func addRecordRow(sheet *xlsx.Sheet, p *attom.Property) {
	fillRecordCells(sheet.AddRow(), p)
}

func fillRecordCells(row *xlsx.Row, p *attom.Property) {
	addr, ok := prospect.SitusAddress(p)
	addOptionalString(row, addr, ok)

	name, src := prospect.OwnerName(p)
	if src == model.NameSourceUnknown {
		row.AddCell().Value = ""
		row.AddCell().Value = ""
	} else {
		row.AddCell().Value = name
		row.AddCell().Value = string(src)
	}

	mail, ok := prospect.OwnerMailingAddress(p)
	addOptionalString(row, mail, ok)
	value, ok := prospect.PropertyValue(p)
	addOptionalFloat(row, value, ok)
	saleAmt, ok := prospect.SaleAmount(p)
	addOptionalFloat(row, saleAmt, ok)
	saleDate, ok := prospect.SaleDateString(p)
	addOptionalDate(row, saleDate, ok)
	mortgage, ok := prospect.MortgageAmount(p)
	addOptionalFloat(row, mortgage, ok)

	if year, ok := prospect.YearBuilt(p); ok {
		row.AddCell().SetInt(year)
	} else {
		row.AddCell().Value = ""
	}

	tax, ok := prospect.AnnualTax(p)
	addOptionalFloat(row, tax, ok)
	row.AddCell().SetBool(prospect.IsAbsentee(p))
}

func addOptionalString(row *xlsx.Row, v string, ok bool) {
	cell := row.AddCell()
	if ok {
		cell.Value = v
	}
}

func addOptionalFloat(row *xlsx.Row, v float64, ok bool) {
	cell := row.AddCell()
	if ok {
		cell.SetFloat(v)
	}
}

func addOptionalInt(row *xlsx.Row, v *int) {
	cell := row.AddCell()
	if v != nil {
		cell.SetInt(*v)
	}
}

// addOptionalDate normalizes tolerant provider date strings to ISO form.
func addOptionalDate(row *xlsx.Row, raw string, ok bool) {
	cell := row.AddCell()
	if !ok {
		return
	}
	if t, ok := prospect.ParseDate(raw); ok {
		cell.Value = t.Format(time.DateOnly)
		return
	}
	cell.Value = raw
}
