package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"qbank/types"
)

var questionHeaders = []string{"id", "status", "subject", "topic", "bloom_level", "difficulty", "marks", "course_outcomes", "question_text", "created_at"}

// QuestionsWorkbook renders questions as an XLSX workbook with one row per question.
// sheetName names the single sheet, usually the bucket title.
func QuestionsWorkbook(sheetName string, questions []types.Question) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteQuestions(&buf, sheetName, questions); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteQuestions writes the workbook to w
func WriteQuestions(w io.Writer, sheetName string, questions []types.Question) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if name := sanitizeSheetName(sheetName); name != "" && name != sheet {
		f.SetSheetName(sheet, name)
		sheet = name
	}

	for i, h := range questionHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, q := range questions {
		row := i + 2
		created := ""
		if !q.CreatedAt.IsZero() {
			created = q.CreatedAt.Format("2006-01-02 15:04:05")
		}
		values := []any{
			q.ID,
			string(q.Status),
			q.Metadata.Subject,
			q.Metadata.Topic,
			q.Metadata.BloomLevel,
			q.Metadata.Difficulty,
			q.Metadata.Marks,
			strings.Join(q.CourseOutcomeCodes(), ", "),
			q.QuestionText,
			created,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "H", 16)
	_ = f.SetColWidth(sheet, "I", "I", 80)
	_ = f.SetColWidth(sheet, "J", "J", 20)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write excel: %w", err)
	}
	return nil
}

// sheetName limits: 31 chars, none of : \ / ? * [ ]
func sanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
