// Package importexport turns course vocabulary into downloadable files.
package importexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var exportHeader = []string{"word", "meaning"}

// BuildExportCSV writes a UTF-8 BOM, a header and one CRLF-terminated row per
// entry.
func BuildExportCSV(entries []catalog.VocabEntry) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.Write(utf8BOM); err != nil {
		return nil, err
	}

	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if err := writer.Write([]string{entry.Word, entry.Meaning}); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportFilename(courseID string, now time.Time) string {
	return fmt.Sprintf("vocabulary-%s-%s.csv", courseID, now.Format("20060102"))
}
