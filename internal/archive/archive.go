// Package archive writes the project list to disk and reads it back, as Parquet or JSONL.
package archive

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/bokul-dev/folio/internal/models"
)

// Format is chosen from the file extension
type Format string

const (
	FormatParquet Format = "parquet"
	FormatJSONL   Format = "jsonl"
)

// FormatFor maps a path's extension to a format
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return FormatParquet, nil
	case ".jsonl", ".json":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

// Save writes projects to path in list order
func Save(path string, projects []models.Project) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatParquet:
		err = writeParquet(file, projects)
	default:
		err = writeJSONL(file, projects)
	}
	if err != nil {
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	slog.Info("Projects exported", "path", path, "format", format, "count", len(projects))
	return nil
}

// Load reads projects saved by Save
func Load(path string) ([]models.Project, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatParquet:
		return loadParquet(path)
	default:
		return loadJSONL(path)
	}
}

func writeJSONL(w io.Writer, projects []models.Project) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i := range projects {
		if err := enc.Encode(&projects[i]); err != nil {
			return fmt.Errorf("failed to encode project %s: %w", projects[i].ID, err)
		}
	}
	return bw.Flush()
}

func writeParquet(w io.Writer, projects []models.Project) error {
	writer := parquet.NewGenericWriter[models.Project](w)
	if _, err := writer.Write(projects); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

func loadJSONL(path string) ([]models.Project, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	projects := []models.Project{}
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var p models.Project
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		projects = append(projects, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading archive: %w", err)
	}

	slog.Debug("Finished reading JSONL archive", "path", path, "count", len(projects))
	return projects, nil
}

func loadParquet(path string) ([]models.Project, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[models.Project](pf)
	defer reader.Close()

	projects := make([]models.Project, 0, pf.NumRows())
	rows := make([]models.Project, 64)
	for {
		n, err := reader.Read(rows)
		projects = append(projects, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet archive", "path", path, "count", len(projects), "row_groups", len(pf.RowGroups()))
	return projects, nil
}
