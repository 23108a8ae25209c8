package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"qbank/types"
)

func TestQuestionsWorkbook(t *testing.T) {
	questions := []types.Question{
		{
			ID:           12,
			QuestionText: "Define velocity.",
			Metadata:     types.Metadata{Subject: "Physics", Topic: "Kinematics", BloomLevel: "RBT1", Difficulty: "EASY", Marks: 2},
			CourseOutcomes: []types.CourseOutcome{
				{ID: 1, OutcomeCode: "CO1"},
				{ID: 2, OutcomeCode: "CO2"},
			},
			CreatedAt: types.Timestamp{Time: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
			Status:    types.StatusApproved,
		},
	}

	data, err := QuestionsWorkbook("Approved Questions", questions)
	if err != nil {
		t.Fatalf("QuestionsWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Approved Questions" {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows("Approved Questions")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d; want 2", len(rows))
	}
	row := rows[1]
	if row[0] != "12" || row[1] != "APPROVED" || row[7] != "CO1, CO2" || row[8] != "Define velocity." || row[9] != "2024-03-01 10:00:00" {
		t.Fatalf("row = %v", row)
	}
}

func TestSanitizeSheetName(t *testing.T) {
	got := sanitizeSheetName("Dedupe Approved - Pending Final Approval")
	if len([]rune(got)) != 31 {
		t.Fatalf("len = %d", len([]rune(got)))
	}
	if sanitizeSheetName("a/b:c") != "a-b-c" {
		t.Fatalf("got %q", sanitizeSheetName("a/b:c"))
	}
}

func TestReadBatchSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Topic", "Bloom_Level", "Difficulty", "Marks"},
		{"Kinematics", "rbt3", "medium", 5},
		{"Dynamics", "RBT2", "EASY", "many"},
		{"Energy", "", "HARD", 10},
		{"Momentum", "RBT4", "HARD", 8},
	}
	for r, values := range rows {
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	specs, rowErrs, err := ReadBatchSheet(&buf)
	if err != nil {
		t.Fatalf("ReadBatchSheet: %v", err)
	}
	if len(specs) != 2 || specs[0].BloomLevel != "RBT3" || specs[0].Difficulty != "MEDIUM" || specs[1].Topic != "Momentum" {
		t.Fatalf("specs = %+v", specs)
	}
	if len(rowErrs) != 2 || rowErrs[0].Row != 3 || rowErrs[1].Row != 4 {
		t.Fatalf("row errors = %+v", rowErrs)
	}
}

func TestReadBatchSheetMissingColumn(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "topic")
	_ = f.SetCellValue(sheet, "A2", "Kinematics")
	var buf bytes.Buffer
	_ = f.Write(&buf)

	if _, _, err := ReadBatchSheet(&buf); err == nil {
		t.Fatal("expected missing column error")
	}
}
