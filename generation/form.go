package generation

import (
	"path/filepath"
	"strings"

	"qbank/config"
)

// Mode selects the generation endpoint
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeManual   Mode = "manual"
	ModeNotes    Mode = "notes"
)

// Modes in form order
var Modes = []Mode{ModeStandard, ModeManual, ModeNotes}

// ParseMode accepts a mode name; empty means standard
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeStandard, true
	case ModeStandard, ModeManual, ModeNotes:
		return m, true
	default:
		return "", false
	}
}

// Form holds everything an operator can enter on the generation form
type Form struct {
	Mode             Mode
	SubjectID        int64
	Subject          string
	Topic            string
	BloomLevel       string
	Difficulty       string
	Marks            int
	CourseOutcomeIDs []int64

	// manual mode
	QuestionText string

	// notes mode
	FileName     string
	File         []byte
	CustomPrompt string
}

// NewForm returns a standard-mode form with default marks
func NewForm() Form {
	return Form{Mode: ModeStandard, Marks: config.DefaultMarks}
}

// WithSubject changes the subject. Topic and course outcomes belong to a subject,
// so they are cleared whenever the subject actually changes.
func (f Form) WithSubject(id int64, name string) Form {
	if f.SubjectID == id && f.Subject == name {
		return f
	}
	f.SubjectID = id
	f.Subject = name
	f.Topic = ""
	f.CourseOutcomeIDs = nil
	return f
}

// Validate checks required fields for the form's mode
func (f Form) Validate() error {
	var v ValidationError

	if _, ok := ParseMode(string(f.Mode)); !ok {
		v.add("mode", "unknown mode "+string(f.Mode))
	}
	if strings.TrimSpace(f.Subject) == "" {
		v.add("subject", "Subject is required")
	}
	if strings.TrimSpace(f.Topic) == "" {
		v.add("topic", "Topic is required")
	}
	if strings.TrimSpace(f.BloomLevel) == "" {
		v.add("bloom_level", "Bloom's level is required")
	}
	if strings.TrimSpace(f.Difficulty) == "" {
		v.add("difficulty", "Difficulty is required")
	}
	if f.Marks < config.MinMarks || f.Marks > config.MaxMarks {
		v.add("marks", "Marks must be between 1 and 100")
	}

	switch f.Mode {
	case ModeManual:
		if strings.TrimSpace(f.QuestionText) == "" {
			v.add("question_text", "Question text is required")
		}
	case ModeNotes:
		switch {
		case f.FileName == "" || len(f.File) == 0:
			v.add("file", "A notes file is required")
		case !strings.EqualFold(filepath.Ext(f.FileName), ".pdf"):
			v.add("file", "Only PDF files are allowed")
		}
	}

	if len(v.Fields) == 0 {
		return nil
	}
	return &v
}

// FieldError is one invalid field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a form
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// For returns the message for one field, or ""
func (e *ValidationError) For(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}
