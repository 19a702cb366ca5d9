package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret value comes from.
type Source struct {
	// Name gives error messages context about which secret failed to load.
	Name string
	// Value is an inline secret provided via configuration.
	Value string
	// File points to a file containing the secret. When set it takes
	// precedence over Value.
	File string
}

// Load resolves the secret from the source, trimming surrounding whitespace.
// An error is returned when neither File nor Value yield a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
