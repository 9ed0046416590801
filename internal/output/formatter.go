// Package output renders threshold reports in console, CSV, JSON, YAML and HTML form.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// Formatter renders a FuyouStatus report
type Formatter interface {
	Name() string
	Format(status *domain.FuyouStatus) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(status *domain.FuyouStatus) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(status *domain.FuyouStatus) ([]byte, error) {
	return f.F(status)
}

var formatters = []Formatter{
	ConsoleFormatter{},
	ConsoleLiteFormatter{},
	CSVSummarizer{},
	DetailedCSVFormatter{},
	JSONFormatter{},
	YAMLFormatter{},
	HTMLFormatter{},
}

var formatAliases = map[string]string{
	"verbose": "console",
	"text":    "console-lite",
	"plain":   "console-lite",
	"yml":     "yaml",
}

// AvailableFormatterNames lists every registered formatter name
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	return names
}

// AvailableFormatAliases lists the accepted alternate names
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for a := range formatAliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// GetFormatterByName returns the formatter registered under name or alias, or nil
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	for _, f := range formatters {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// GenerateReport renders status with the named formatter and writes it to w
func GenerateReport(w io.Writer, status *domain.FuyouStatus, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(AvailableFormatterNames(), ", "))
	}
	data, err := f.Format(status)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFormatted renders status and saves it as fuyou_report_<timestamp>.<ext>
// in the working directory, returning the file name
func WriteFormatted(f Formatter, status *domain.FuyouStatus, ext string) (string, error) {
	data, err := f.Format(status)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("fuyou_report_%s.%s", time.Now().Format("20060102_150405"), strings.TrimPrefix(ext, "."))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return filename, nil
}
