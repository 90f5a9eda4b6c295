package parser

import (
	"os"
	"path/filepath"
)

// ParseFile reads filePath and runs it through Parse. This is the
// recommended entry point for loading a program from disk; it handles file
// I/O. Callers that already hold source text (such as the API server) call
// Parse directly.
func ParseFile(filePath string, opts Options) (*Program, *ErrorList, error) {
	content, err := os.ReadFile(filePath) // #nosec G304 -- user-provided source file path
	if err != nil {
		return nil, nil, err
	}

	filename := filepath.Base(filePath)
	program, errs := Parse(string(content), filename, opts)
	return program, errs, nil
}
