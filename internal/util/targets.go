package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// NormalizeTargets trims whitespace, drops empty entries and removes
// duplicates while preserving first-seen order. The dispatch engine
// submits every element it is given exactly once, so deduplication has
// to happen before the list reaches it.
func NormalizeTargets(targets []string) []string {
	seen := make(map[string]bool, len(targets))
	out := make([]string, 0, len(targets))

	for _, t := range targets {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}

	return out
}

// ReadTargets reads one target per line. Blank lines and lines starting
// with '#' are skipped.
func ReadTargets(r io.Reader) ([]string, error) {
	var targets []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read targets: %w", err)
	}

	return targets, nil
}

// ReadTargetsFile reads targets from a file, or from stdin when path
// is "-".
func ReadTargetsFile(path string) ([]string, error) {
	if path == "-" {
		return ReadTargets(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer f.Close()

	return ReadTargets(f)
}
