// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Command gen-schema writes the request JSON Schema of every operation.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dsweb/gamegate/internal/auth"
	"github.com/dsweb/gamegate/internal/gateway"
)

func main() {
	written, err := generate("schemas")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating schemas: %v\n", err)
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Printf("Generated %s\n", path)
	}
}

// generate writes {op}.request.schema.json files under dir.
func generate(dir string) ([]string, error) {
	// Only request types are read; handlers are never invoked.
	entries := auth.Operations(nil)

	schemas, err := gateway.BuildSchemas(entries)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	written := make([]string, 0, len(entries))
	for _, e := range entries {
		data, _ := schemas.JSON(e.Name)
		outPath := filepath.Join(dir, e.Name+".request.schema.json")
		if err := os.WriteFile(outPath, append(data, '\n'), 0o600); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		written = append(written, outPath)
	}
	return written, nil
}
