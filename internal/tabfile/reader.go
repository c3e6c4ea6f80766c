// Package tabfile reads the tab-delimited text files of the EPA STORET
// legacy export format. Each file carries a header line, a decorative
// separator line of dashes, and then data rows.
package tabfile

import (
	"bufio"
	"log"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Scanner buffer sized for the widest observed result rows.
const maxLineBytes = 1 << 20

// Read parses one export file and returns its header columns and data rows,
// every field trimmed of surrounding whitespace. The separator line after
// the header is discarded, blank lines are skipped.
//
// The legacy exports are Latin-1 encoded; decoding is byte-preserving and
// never fails. An unreadable file is logged as a warning and yields empty
// results so the caller can continue with the remaining files.
func Read(path string) ([]string, [][]string) {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("tabfile: warning: could not read %s: %v", path, err)
		return nil, nil
	}
	defer f.Close()

	sc := bufio.NewScanner(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var (
		header []string
		rows   [][]string
		lineNo int
	)
	for sc.Scan() {
		line := sc.Text()
		lineNo++
		switch {
		case lineNo == 1:
			header = splitFields(line)
		case lineNo == 2:
			// Separator line of dashes, always discarded.
		default:
			if strings.TrimSpace(line) == "" {
				continue
			}
			rows = append(rows, splitFields(line))
		}
	}
	if err := sc.Err(); err != nil {
		log.Printf("tabfile: warning: could not read %s: %v", path, err)
		return nil, nil
	}
	if lineNo < 2 {
		return nil, nil
	}
	return header, rows
}

func splitFields(line string) []string {
	fields := strings.Split(line, "\t")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
