package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// DefaultVariablesFile is read when no path is configured.
const DefaultVariablesFile = "invoice_variables.json"

// ParseVariables decodes an invoice_variables.json document.
func ParseVariables(data []byte) (Variables, error) {
	var v Variables
	if err := json.Unmarshal(data, &v); err != nil {
		return Variables{}, fmt.Errorf("decoding invoice variables: %w", err)
	}
	return v, nil
}

// LoadVariables reads path. A missing or undecodable file is logged and
// yields empty Variables so the invoice still renders its fixed sections.
func LoadVariables(path string, logger *zap.Logger) Variables {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("invoice variables file not found", zap.String("path", path))
		} else {
			logger.Warn("reading invoice variables failed", zap.String("path", path), zap.Error(err))
		}
		return Variables{}
	}

	v, err := ParseVariables(data)
	if err != nil {
		logger.Warn("failed to decode invoice variables", zap.String("path", path), zap.Error(err))
		return Variables{}
	}
	return v
}
