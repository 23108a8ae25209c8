package generation

import (
	"fmt"
	"strings"
	"time"

	"qbank/types"
)

// ResultCard is the display form of one returned question
type ResultCard struct {
	ID             int64
	Text           string
	Subject        string
	Topic          string
	BloomLevel     string
	Difficulty     string
	Marks          int
	CourseOutcomes []string
	CreatedAt      time.Time
}

// Render builds one card per question, in order
func Render(questions []types.Question) []ResultCard {
	cards := make([]ResultCard, 0, len(questions))
	for _, q := range questions {
		cards = append(cards, ResultCard{
			ID:             q.ID,
			Text:           q.QuestionText,
			Subject:        q.Metadata.Subject,
			Topic:          q.Metadata.Topic,
			BloomLevel:     q.Metadata.BloomLevel,
			Difficulty:     q.Metadata.Difficulty,
			Marks:          q.Metadata.Marks,
			CourseOutcomes: q.CourseOutcomeCodes(),
			CreatedAt:      q.CreatedAt.Time,
		})
	}
	return cards
}

func (c ResultCard) Heading() string {
	return fmt.Sprintf("Question #%d", c.ID)
}

// PlainText is the copyable form of the card
func (c ResultCard) PlainText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", c.Subject)
	fmt.Fprintf(&b, "Topic: %s\n", c.Topic)
	fmt.Fprintf(&b, "Bloom's Level: %s\n", c.BloomLevel)
	fmt.Fprintf(&b, "Difficulty: %s\n", c.Difficulty)
	fmt.Fprintf(&b, "Marks: %d marks\n", c.Marks)
	if len(c.CourseOutcomes) > 0 {
		fmt.Fprintf(&b, "Course Outcomes: %s\n", strings.Join(c.CourseOutcomes, ", "))
	}
	fmt.Fprintf(&b, "\nQuestion:\n%s", c.Text)
	return b.String()
}
