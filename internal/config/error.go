package config

import (
	"fmt"
	"io"
	"strings"
)

// ConfigError collects every problem found in one config file.
type ConfigError struct {
	Path    string
	Missing []string // unresolved ${VAR} references; "VAR: hint" for ${VAR:?hint}
	Errors  []string // "section.key: problem"
}

// Error renders all problems on one line so the error stays readable in logs.
func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing environment variables: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		parts = append(parts, "validation failed: "+strings.Join(e.Errors, "; "))
	}

	msg := strings.Join(parts, "; ")
	if e.Path != "" {
		msg = fmt.Sprintf("config %s: %s", e.Path, msg)
	}
	return msg
}

// HasErrors reports whether any problem was recorded.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}

// Report writes the problems as an indented list for `costar config test`.
func (e *ConfigError) Report(w io.Writer) {
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintln(w, title+":")
		for _, item := range items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
		fmt.Fprintln(w)
	}
	section("Missing environment variables", e.Missing)
	section("Validation errors", e.Errors)
}
