package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"qbank/client"
)

// RowError is a batch sheet row that could not be read
type RowError struct {
	Row     int
	Message string
}

// ReadBatchSheet reads batch plan lines from the first sheet of an XLSX file.
// Required columns: topic, bloom_level, difficulty, marks. Bad rows are
// reported and skipped.
func ReadBatchSheet(r io.Reader) ([]client.BatchQuestionSpec, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("excel sheet is empty")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, errors.New("no data rows found")
	}

	header := map[string]int{}
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"topic", "bloom_level", "difficulty", "marks"} {
		if _, ok := header[col]; !ok {
			return nil, nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var (
		specs []client.BatchQuestionSpec
		errs  []RowError
	)
	for i := 1; i < len(rows); i++ {
		rowNo := i + 1
		row := rows[i]
		get := func(key string) string {
			idx, ok := header[key]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if get("topic") == "" && get("bloom_level") == "" && get("difficulty") == "" && get("marks") == "" {
			continue
		}
		marks, err := strconv.Atoi(get("marks"))
		if err != nil {
			errs = append(errs, RowError{Row: rowNo, Message: fmt.Sprintf("invalid marks %q", get("marks"))})
			continue
		}
		spec := client.BatchQuestionSpec{
			Topic:      get("topic"),
			BloomLevel: strings.ToUpper(get("bloom_level")),
			Difficulty: strings.ToUpper(get("difficulty")),
			Marks:      marks,
		}
		if spec.Topic == "" || spec.BloomLevel == "" || spec.Difficulty == "" {
			errs = append(errs, RowError{Row: rowNo, Message: "topic, bloom_level and difficulty are required"})
			continue
		}
		specs = append(specs, spec)
	}
	return specs, errs, nil
}
