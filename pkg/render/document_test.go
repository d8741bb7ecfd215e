package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = [4]string{"Description", "Quantity", "Rate", "Total"}

func TestRowTotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		rate     string
		want     string
	}{
		{"whole hours", "10", "21.88", "218.80"},
		{"long rate literal", "168", "21.880000000000000000001", "3675.84"},
		{"rounds half up", "1", "0.125", "0.13"},
		{"zero quantity", "0", "21.88", "0.00"},
		{"fractional quantity", "1.5", "10", "15.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RowTotal(tt.quantity, tt.rate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRowTotal_InvalidAmount(t *testing.T) {
	_, err := RowTotal("ten", "21.88")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = RowTotal("10", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAddTable_WritesTotalBack(t *testing.T) {
	doc := New("INVOICE")
	rows := []Row{{"Development", "10", "21.88", "0.00"}}

	require.NoError(t, doc.AddTable("Services", testHeader, rows))
	assert.Equal(t, "218.80", rows[0][3])
}

func TestAddTable_MalformedRowIsFatal(t *testing.T) {
	doc := New("INVOICE")
	rows := []Row{{"Development", "x", "21.88", "0.00"}}

	err := doc.AddTable("Services", testHeader, rows)
	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, "0.00", rows[0][3])
	assert.Empty(t, doc.Blocks(), "a failed table is not logged as drawn")
}

func TestRowHeight(t *testing.T) {
	doc := New("INVOICE")
	doc.pdf.SetFont(fontFamily, "", 11)

	short := doc.rowHeight(Row{"Dev", "1", "2", "2.00"})
	assert.Equal(t, lineHeight, short)

	long := strings.Repeat("very long service description ", 10)
	tall := doc.rowHeight(Row{long, "1", "2", "2.00"})
	width := doc.pdf.GetStringWidth(long)
	wantLines := int(width/ColumnWidths[0]) + 1
	assert.Greater(t, wantLines, 1)
	assert.Equal(t, float64(wantLines)*lineHeight, tall)
}

func TestBlocks_Order(t *testing.T) {
	doc := New("INVOICE")
	doc.AddSection("Info", []Pair{{Label: "Number", Value: "DVT00001"}})
	require.NoError(t, doc.AddTable("Services", testHeader, []Row{{"Dev", "8", "10", ""}}))
	doc.AddSection("Payment", nil)

	assert.Equal(t, []Block{
		{Kind: KindSection, Title: "Info"},
		{Kind: KindTable, Title: "Services"},
		{Kind: KindSection, Title: "Payment"},
	}, doc.Blocks())
}

func TestOutput_ProducesPDF(t *testing.T) {
	doc := New("INVOICE")
	doc.AddSection("INFORMAÇÕES DA FATURA", []Pair{{Label: "Número da Fatura", Value: "DVT00001"}})

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 1, doc.PageCount())
}

func TestAddTable_PaginatesLongTables(t *testing.T) {
	doc := New("INVOICE")
	rows := make([]Row, 60)
	for i := range rows {
		rows[i] = Row{"Support", "1", "1", ""}
	}

	require.NoError(t, doc.AddTable("Services", testHeader, rows))
	assert.Greater(t, doc.PageCount(), 1)
	for _, row := range rows {
		assert.Equal(t, "1.00", row[3])
	}
}

func TestAddTable_HeaderOnEveryPageAndRowsInsideMargin(t *testing.T) {
	doc := New("INVOICE")
	rows := make([]Row, 60)
	for i := range rows {
		rows[i] = Row{"Support", "1", "1", ""}
	}
	require.NoError(t, doc.AddTable("Services", testHeader, rows))
	require.Greater(t, doc.PageCount(), 1)

	assert.Equal(t, doc.PageCount(), doc.headers)
	require.Len(t, doc.frames, len(rows))

	_, pageHeight := doc.pdf.GetPageSize()
	limit := pageHeight - BottomMargin
	for i, f := range doc.frames {
		assert.LessOrEqual(t, f.bottom, limit, "row %d crosses the bottom margin", i+1)
	}

	var firstOnPage2 *frame
	for i := range doc.frames {
		if doc.frames[i].page == 2 {
			firstOnPage2 = &doc.frames[i]
			break
		}
	}
	require.NotNil(t, firstOnPage2)
	assert.InDelta(t, doc.contentTop, firstOnPage2.top, 0.001)
	assert.Greater(t, firstOnPage2.top, titleHeight)
}

func TestAddTable_NormalizesDisplayedRate(t *testing.T) {
	doc := New("INVOICE")
	rows := []Row{
		{"Development", "168", "21.880000000000000000001", ""},
		{"Support", "2", "20.50", ""},
	}
	require.NoError(t, doc.AddTable("Services", testHeader, rows))

	assert.Equal(t, "21.88", rows[0][2])
	assert.Equal(t, "3675.84", rows[0][3])
	assert.Equal(t, "20.50", rows[1][2])
	assert.Equal(t, "41.00", rows[1][3])
}

func TestText_TranscodesToWindows1252(t *testing.T) {
	doc := New("INVOICE")
	assert.Equal(t, "Servi\xe7o", doc.text("Serviço"))
	assert.Equal(t, "a?b", doc.text("a世b"))
}
