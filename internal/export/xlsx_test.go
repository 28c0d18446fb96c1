package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

func strp(s string) *string   { return &s }
func fltp(f float64) *float64 { return &f }
func intp(i int) *int         { return &i }

func sampleProperty() attom.Property {
	return attom.Property{
		Address: &attom.Address{OneLine: strp("100 MAIN ST, AUSTIN, TX 78704")},
		Summary: &attom.Summary{AbsenteeInd: strp("ABSENTEE OWNER"), YearBuilt: intp(1987)},
		Owner: &attom.Owner{
			Owner1:                &attom.OwnerName{FullName: strp("JANE INVESTOR")},
			MailingAddressOneLine: strp("PO BOX 12, DALLAS, TX 75201"),
		},
		Sale: &attom.Sale{Amount: &attom.SaleAmount{
			SaleAmt:        fltp(350000),
			SaleSearchDate: strp("2019-06-15"),
		}},
		AVM: &attom.AVM{Amount: &attom.AVMAmount{Value: fltp(480000)}},
		Assessment: &attom.Assessment{
			Tax: &attom.AssessmentTax{TaxAmt: fltp(8200)},
		},
	}
}

func TestWriteRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prospects.xlsx")
	require.NoError(t, WriteRecords(path, []attom.Property{sampleProperty()}))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Prospects", sheet.Name)
	require.Len(t, sheet.Rows, 2)

	header := sheet.Rows[0]
	assert.Equal(t, "Address", header.Cells[0].Value)
	assert.Equal(t, "Absentee", header.Cells[len(recordHeader)-1].Value)

	row := sheet.Rows[1]
	assert.Equal(t, "100 MAIN ST, AUSTIN, TX 78704", row.Cells[0].Value)
	assert.Equal(t, "JANE INVESTOR", row.Cells[1].Value)
	assert.Equal(t, string(model.NameSourceOwner), row.Cells[2].Value)
	assert.Equal(t, "PO BOX 12, DALLAS, TX 75201", row.Cells[3].Value)

	value, err := row.Cells[4].Float()
	require.NoError(t, err)
	assert.Equal(t, 480000.0, value)

	// Provider dates come back normalized to ISO.
	assert.Equal(t, "2019-06-15", row.Cells[6].Value)

	absentee := row.Cells[len(recordHeader)-1]
	assert.Equal(t, "1", absentee.Value)
}

func TestWriteRecords_SparseRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.xlsx")
	require.NoError(t, WriteRecords(path, []attom.Property{{}}))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	row := f.Sheets[0].Rows[1]
	// Unknown facts stay blank rather than rendering zeros.
	assert.Empty(t, row.Cells[0].Value)
	assert.Empty(t, row.Cells[4].Value)
}

func TestWriteGroups(t *testing.T) {
	oldest, avg := 1984, 1992
	groups := []model.InvestorGroup{{
		OwnerName:      "LLC HOLDINGS",
		MailingAddress: "PO BOX 12, DALLAS, TX 75201",
		IsCorporate:    true,
		Properties:     []attom.Property{sampleProperty(), sampleProperty()},
		TotalValue:     960000,
		TotalTaxBurden: 16400,
		OldestYear:     &oldest,
		AvgYear:        &avg,
	}}

	path := filepath.Join(t.TempDir(), "portfolios.xlsx")
	require.NoError(t, WriteGroups(path, groups))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)

	summary := f.Sheets[0]
	assert.Equal(t, "Portfolios", summary.Name)
	require.Len(t, summary.Rows, 2)

	row := summary.Rows[1]
	assert.Equal(t, "LLC HOLDINGS", row.Cells[0].Value)
	assert.Equal(t, "1", row.Cells[2].Value)

	count, err := row.Cells[3].Int()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	total, err := row.Cells[4].Float()
	require.NoError(t, err)
	assert.Equal(t, 960000.0, total)

	detail := f.Sheets[1]
	assert.Equal(t, "Properties", detail.Name)
	require.Len(t, detail.Rows, 3)
	assert.Equal(t, "Portfolio Owner", detail.Rows[0].Cells[0].Value)
	assert.Equal(t, "LLC HOLDINGS", detail.Rows[1].Cells[0].Value)
	assert.Equal(t, "100 MAIN ST, AUSTIN, TX 78704", detail.Rows[1].Cells[1].Value)
}

func TestWriteRecords_BadPath(t *testing.T) {
	err := WriteRecords(filepath.Join(t.TempDir(), "missing", "out.xlsx"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export: save")
}
