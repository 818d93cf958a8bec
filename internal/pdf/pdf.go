// Package pdf renders a printable study sheet of the deck.
package pdf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"

	"github.com/at-ishikawa/quizdeck/internal/question"
)

// WriteStudySheet renders the records as a markdown study sheet and
// converts it to a PDF at pdfPath. Questions come first, answers in a
// separate section at the end so the sheet can be folded for review.
func WriteStudySheet(records []question.Question, pdfPath string) (string, error) {
	if !strings.HasSuffix(pdfPath, ".pdf") {
		return "", fmt.Errorf("output file must have .pdf extension: %s", pdfPath)
	}

	content := renderMarkdown(records)

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process([]byte(content)); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

func renderMarkdown(records []question.Question) string {
	var sheet strings.Builder
	sheet.WriteString("# Study Sheet\n\n")

	for i, record := range records {
		fmt.Fprintf(&sheet, "## %d. %s\n\n", i+1, record.Title)
		if record.Type == question.TypeMultipleChoice {
			for j, option := range record.Options {
				if strings.TrimSpace(option) == "" {
					continue
				}
				fmt.Fprintf(&sheet, "%d. %s\n", j+1, option)
			}
			sheet.WriteString("\n")
		}
		if len(record.Tags) > 0 {
			fmt.Fprintf(&sheet, "Tags: %s\n\n", strings.Join(record.Tags, ", "))
		}
	}

	sheet.WriteString("# Answers\n\n")
	for i, record := range records {
		fmt.Fprintf(&sheet, "%d. %s\n", i+1, record.Answer)
		if strings.TrimSpace(record.Description) != "" {
			fmt.Fprintf(&sheet, "   %s\n", record.Description)
		}
	}

	return sheet.String()
}
