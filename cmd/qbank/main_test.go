package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"qbank/audit"
	"qbank/types"
)

func TestReadBatchLines(t *testing.T) {
	input := `# topic|bloom|difficulty|marks
Kinematics|RBT2|EASY|5

Dynamics | RBT3 | HARD | 10
`
	items, err := readBatchLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readBatchLines: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[1].Topic != "Dynamics" || items[1].Marks != 10 {
		t.Errorf("second item = %+v", items[1])
	}

	if _, err := readBatchLines(strings.NewReader("Kinematics|RBT2|EASY\n")); err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("err = %v, want a line 1 error", err)
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList(" 1, 2,3 ")
	if err != nil || len(ids) != 3 || ids[2] != 3 {
		t.Fatalf("ids = %v, err = %v", ids, err)
	}
	if ids, _ := parseIDList(""); ids != nil {
		t.Errorf("empty list = %v", ids)
	}
	if _, err := parseIDList("1,x"); err == nil {
		t.Error("expected an error")
	}
}

func TestFormatEvent(t *testing.T) {
	target := int64(3)
	e := audit.Event{
		Timestamp:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Action:      audit.ActionLink,
		QuestionIDs: []int64{7},
		TargetID:    &target,
		Relation:    "PARENT",
		Outcome:     audit.OutcomeFailure,
		Error:       "database locked",
	}
	got := formatEvent(&e)
	for _, want := range []string{"❌", "link [7] PARENT -> #3", "(database locked)"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatEvent = %q, missing %q", got, want)
		}
	}
}

func TestFormatListLineTruncates(t *testing.T) {
	q := types.Question{
		ID:           12,
		QuestionText: strings.Repeat("é", 80),
		Metadata:     types.Metadata{Subject: "Physics", Topic: "Optics", BloomLevel: "RBT2", Difficulty: "EASY", Marks: 5},
	}
	got := formatListLine(q)
	if !strings.HasSuffix(got, strings.Repeat("é", 57)+"...") {
		t.Errorf("formatListLine = %q", got)
	}
	if !strings.HasPrefix(got, "#12") || !strings.Contains(got, "Physics / Optics") {
		t.Errorf("formatListLine = %q", got)
	}
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	questions := []types.Question{{ID: 1, QuestionText: "Define velocity.", Status: types.StatusApproved}}

	path := filepath.Join(dir, "approved.xlsx")
	if err := writeWorkbook(path, types.StatusApproved.Title(), questions); err != nil {
		t.Fatalf("writeWorkbook: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("output is not an xlsx archive")
	}

	missing := filepath.Join(dir, "no-such-dir", "approved.xlsx")
	if err := writeWorkbook(missing, types.StatusApproved.Title(), questions); err == nil {
		t.Error("expected an error for an unwritable path")
	}
}
