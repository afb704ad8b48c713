package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/agbru/nbase/internal/ui"
	"github.com/agbru/nbase/pkg/nbase"
)

// DefaultCharsetColumns is the number of symbols per row of a charset table.
const DefaultCharsetColumns = 8

// DisplayCharset prints the symbols of c with their digit values in a table.
// Columns are aligned on display width so that wide symbols (CJK, emoji) do
// not shift the rows.
//
// Parameters:
//   - out: The output writer.
//   - c: The charset to display.
//   - columns: Symbols per row (DefaultCharsetColumns when < 1).
func DisplayCharset(out io.Writer, c *nbase.Charset, columns int) {
	if columns < 1 {
		columns = DefaultCharsetColumns
	}
	symbols := c.Symbols()

	symWidth := 1
	for _, s := range symbols {
		symWidth = max(symWidth, runewidth.StringWidth(s))
	}
	valWidth := len(strconv.Itoa(len(symbols) - 1))

	fmt.Fprintf(out, "%s %s symbols, bases 2 to %d\n", ui.Bold("Charset:"), ui.Info(len(symbols)), len(symbols))
	var row strings.Builder
	for i, s := range symbols {
		if i > 0 && i%columns == 0 {
			fmt.Fprintln(out, strings.TrimRight(row.String(), " "))
			row.Reset()
		}
		fmt.Fprintf(&row, "%*d %s  ", valWidth, i, ui.Success(runewidth.FillRight(s, symWidth)))
	}
	if row.Len() > 0 {
		fmt.Fprintln(out, strings.TrimRight(row.String(), " "))
	}
}
