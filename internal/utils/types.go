package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type DownloadEntry struct {
	OutputPath string `yaml:"op,omitempty"`
	URL        string `yaml:"link"`
	Segments   int    `yaml:"segments,omitempty"`
}

type DownloadList struct {
	Downloads []DownloadEntry `yaml:"downloads"`
}

// ReadDownloadList parses a YAML batch file into download entries.
func ReadDownloadList(path string) ([]DownloadEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading list file: %w", err)
	}
	var list DownloadList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("error parsing list file: %w", err)
	}
	var entries []DownloadEntry
	for _, entry := range list.Downloads {
		if entry.URL == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
