// Package source reads event batches for the ingestion boundary. Readers
// return one finite batch in arrival order; the reasoning core never touches
// files or databases itself.
package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chainrecon/chainrecon/pkg/recon/event"
)

// LoadJSONL reads one event batch from a JSONL file, one JSON record per
// line. Blank lines are skipped.
func LoadJSONL(path string) ([]event.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var batch []event.Record
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec event.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNum, err)
		}
		batch = append(batch, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return batch, nil
}
