package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunReturnsSetupErrors(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		doc  string
	}{
		{"malformed_yaml", "window: [\n"},
		{"invalid_size", "window:\n  width: 0\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(dir, c.name+".yaml")
			if err := os.WriteFile(path, []byte(c.doc), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := run(path, 0); err == nil {
				t.Fatalf("run should return the config error instead of exiting")
			}
		})
	}
}
