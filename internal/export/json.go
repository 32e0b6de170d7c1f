package export

import (
	"encoding/json"
	"os"

	"github.com/idelchi/diranalyzer/internal/dirstat"
)

func writeJSON(results *dirstat.Results, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o644) //nolint:gosec // Reports are meant to be shared
}
