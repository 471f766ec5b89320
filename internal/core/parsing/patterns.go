package parsing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lodestar-lab/temporal-engine/internal/core/dtype"
	"gopkg.in/yaml.v3"
)

// patternFile is the on-disk YAML shape: one kind with its layouts.
//
//	kind: datetime
//	patterns:
//	  - "02.01.2006 15:04:05"
type patternFile struct {
	Kind     string   `yaml:"kind"`
	Patterns []string `yaml:"patterns"`
}

// LoadPatternDir reads *.yaml pattern files from dir into a per-kind
// pattern map for NewTableGuesser. Patterns are loaded once at startup
// and never reloaded. A missing directory is valid (zero extra patterns);
// a malformed file is not.
func LoadPatternDir(dir string) (map[dtype.Kind][]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pattern dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pattern path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pattern dir: %w", err)
	}

	out := make(map[dtype.Kind][]string)
	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading pattern file %q: %w", path, err)
		}
		var pf patternFile
		if err := yaml.Unmarshal(raw, &pf); err != nil {
			return nil, fmt.Errorf("parsing pattern file %q: %w", path, err)
		}
		kind, err := parseKind(pf.Kind)
		if err != nil {
			return nil, fmt.Errorf("pattern file %q: %w", path, err)
		}
		for _, layout := range pf.Patterns {
			if err := checkLayout(kind, layout); err != nil {
				return nil, fmt.Errorf("pattern file %q: %w", path, err)
			}
			out[kind] = append(out[kind], layout)
		}
	}
	return out, nil
}

func parseKind(s string) (dtype.Kind, error) {
	switch s {
	case "date":
		return dtype.Date, nil
	case "datetime":
		return dtype.Datetime, nil
	case "time":
		return dtype.Time, nil
	}
	return 0, fmt.Errorf("unknown pattern kind %q", s)
}

// checkLayout rejects strings that are not real Go layouts. A layout
// string renders the reference time as itself, so parsing the layout
// against itself must recover the reference fields; an all-literal typo
// like "YYYY-MM-DD" parses but yields the zero time instead.
func checkLayout(kind dtype.Kind, layout string) error {
	if strings.TrimSpace(layout) == "" {
		return fmt.Errorf("empty pattern")
	}
	t, err := time.ParseInLocation(layout, layout, time.UTC)
	if err != nil {
		return fmt.Errorf("pattern %q is not a valid layout: %w", layout, err)
	}
	switch kind {
	case dtype.Date, dtype.Datetime:
		if t.Year() != 2006 || t.Month() != time.January || t.Day() != 2 {
			return fmt.Errorf("pattern %q carries no date fields", layout)
		}
	case dtype.Time:
		if t.Hour() != 15 || t.Minute() != 4 {
			return fmt.Errorf("pattern %q carries no clock fields", layout)
		}
	}
	return nil
}
