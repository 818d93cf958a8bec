// Package deck packages a question table and its image attachments into
// a portable zip archive, and unpacks such archives back into a deck.
package deck

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/at-ishikawa/quizdeck/internal/question"
)

// ExportZip writes the records and their referenced images into a zip
// archive at zipPath. Missing image files are skipped, not fatal.
func ExportZip(zipPath string, records []question.Question, imagesDir string) error {
	tempDir, err := os.MkdirTemp("", "quizdeck-export")
	if err != nil {
		return fmt.Errorf("os.MkdirTemp() > %w", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	csvPath := filepath.Join(tempDir, "questions.csv")
	if err := question.NewStore(csvPath).Save(records); err != nil {
		return fmt.Errorf("save questions for export > %w", err)
	}

	output, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", zipPath, err)
	}
	defer func() {
		_ = output.Close()
	}()

	archive := zip.NewWriter(output)
	if err := addFileToZip(archive, csvPath, "questions.csv"); err != nil {
		return err
	}
	for _, record := range records {
		if record.Image == "" {
			continue
		}
		imagePath := filepath.Join(imagesDir, filepath.Base(record.Image))
		if _, err := os.Stat(imagePath); err != nil {
			continue
		}
		name := "images/" + filepath.Base(imagePath)
		if err := addFileToZip(archive, imagePath, name); err != nil {
			return err
		}
	}

	if err := archive.Close(); err != nil {
		return fmt.Errorf("zip.Writer.Close() > %w", err)
	}
	return nil
}

// ImportZip unpacks an exported archive: images are copied into
// imagesDir and the contained question table is returned as fresh
// records with scheduling state reset (level 0, all dates set to
// today, no solved date) and fresh session ids.
func ImportZip(zipPath, imagesDir, today string) ([]question.Question, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("zip.OpenReader(%s) > %w", zipPath, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	tempDir, err := os.MkdirTemp("", "quizdeck-import")
	if err != nil {
		return nil, fmt.Errorf("os.MkdirTemp() > %w", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", imagesDir, err)
	}

	csvPath := ""
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		// Entry names come from an untrusted archive, so only the
		// basename is ever used as a destination.
		base := filepath.Base(entry.Name)
		switch {
		case strings.HasSuffix(base, ".csv"):
			csvPath = filepath.Join(tempDir, base)
			if err := extractZipEntry(entry, csvPath); err != nil {
				return nil, err
			}
		case isImageName(base):
			if err := extractZipEntry(entry, filepath.Join(imagesDir, base)); err != nil {
				return nil, err
			}
		}
	}
	if csvPath == "" {
		return nil, fmt.Errorf("archive %s contains no question table", zipPath)
	}

	records, _, err := question.NewStore(csvPath).Load()
	if err != nil {
		return nil, fmt.Errorf("load imported questions > %w", err)
	}

	for i := range records {
		records[i].Level = 0
		records[i].CreatedDate = today
		records[i].RecommendDate = today
		records[i].NextUpdateDate = today
		records[i].SolvedDate = ""
	}
	return records, nil
}

func addFileToZip(archive *zip.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	entry, err := archive.Create(name)
	if err != nil {
		return fmt.Errorf("zip.Writer.Create(%s) > %w", name, err)
	}
	if _, err := io.Copy(entry, file); err != nil {
		return fmt.Errorf("io.Copy(%s) > %w", name, err)
	}
	return nil
}

func extractZipEntry(entry *zip.File, destination string) error {
	source, err := entry.Open()
	if err != nil {
		return fmt.Errorf("zip entry Open(%s) > %w", entry.Name, err)
	}
	defer func() {
		_ = source.Close()
	}()

	file, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", destination, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := io.Copy(file, source); err != nil {
		return fmt.Errorf("io.Copy(%s) > %w", destination, err)
	}
	return nil
}

func isImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}
