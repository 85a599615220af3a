package export

import (
	"bufio"
	"io"
	"strings"
)

// quote wraps v in double quotes, doubling any quote inside.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func writeRow(w *bufio.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(quote(c))
	}
}

// WriteCSV writes t with every cell quoted, one record per line. The last
// line has no trailing newline.
func WriteCSV(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, t.Columns)
	for _, row := range t.Rows {
		bw.WriteByte('\n')
		writeRow(bw, row)
	}
	return bw.Flush()
}
