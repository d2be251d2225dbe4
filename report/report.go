package report

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Status is the outcome of one input file
type Status string

const (
	StatusProcessed Status = "processed"
	StatusSkipped   Status = "skipped"
	StatusDeleted   Status = "deleted"
)

var titleCaser = cases.Title(language.English)

// Label returns the status as shown on the console
func (s Status) Label() string {
	return titleCaser.String(string(s))
}

// FileReport records what happened to one input file
type FileReport struct {
	Path   string `yaml:"path" json:"path"`
	Status Status `yaml:"status" json:"status"`
	Error  string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Report summarises one command run
type Report struct {
	Command   string        `yaml:"command" json:"command"`
	Folder    string        `yaml:"folder" json:"folder"`
	Output    string        `yaml:"output,omitempty" json:"output,omitempty"`
	StartedAt time.Time     `yaml:"started_at" json:"started_at"`
	Duration  time.Duration `yaml:"duration" json:"duration"`
	Processed int           `yaml:"processed" json:"processed"`
	Skipped   int           `yaml:"skipped" json:"skipped"`
	Deleted   int           `yaml:"deleted" json:"deleted"`
	Files     []FileReport  `yaml:"files" json:"files"`
}

// New starts a report for command over folder
func New(command, folder, output string) *Report {
	return &Report{
		Command:   command,
		Folder:    folder,
		Output:    output,
		StartedAt: time.Now(),
	}
}

// Add records the outcome of one file
func (r *Report) Add(path string, status Status, err error) {
	fr := FileReport{Path: path, Status: status}
	if err != nil {
		fr.Error = err.Error()
	}
	r.Files = append(r.Files, fr)

	switch status {
	case StatusProcessed:
		r.Processed++
	case StatusSkipped:
		r.Skipped++
	case StatusDeleted:
		r.Deleted++
	}
}

// Finish stamps the run duration
func (r *Report) Finish() {
	r.Duration = time.Since(r.StartedAt)
}

// Summary returns the one-line run summary
func (r *Report) Summary() string {
	s := fmt.Sprintf("%s: %d processed, %d skipped, %d deleted",
		r.Command, r.Processed, r.Skipped, r.Deleted)
	if r.Output != "" {
		s += fmt.Sprintf(" -> %s", r.Output)
	}
	return s
}

// WriteYAML writes the report to path
func (r *Report) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
