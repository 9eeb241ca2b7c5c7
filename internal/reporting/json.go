package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Nash0810/docktor/internal/ir"
)

// WriteJSON writes the full run as an indented JSON report file.
func WriteJSON(runID, outDir string, run *ir.Run) (string, error) {
	path := filepath.Join(outDir, runID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return "", err
	}
	return path, nil
}
