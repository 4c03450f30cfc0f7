package services

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed persona.txt
var defaultPersona string

// LoadPersona returns the system instruction sent with every generation call.
// An empty path selects the built-in persona.
func LoadPersona(path string) (string, error) {
	if path == "" {
		return strings.TrimSpace(defaultPersona), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read persona file: %w", err)
	}

	persona := strings.TrimSpace(string(data))
	if persona == "" {
		return "", fmt.Errorf("persona file %s is empty", path)
	}
	return persona, nil
}
