package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestNewEventOutcome(t *testing.T) {
	ok := NewEvent(ActionApprove, []int64{4, 5}, nil)
	if ok.ID == "" || ok.Outcome != OutcomeSuccess || ok.Error != "" {
		t.Fatalf("unexpected success event: %+v", ok)
	}

	failed := NewEvent(ActionDelete, []int64{7}, errors.New("Question not found"))
	if failed.Outcome != OutcomeFailure || failed.Error != "Question not found" {
		t.Fatalf("unexpected failure event: %+v", failed)
	}
	if failed.ID == ok.ID {
		t.Fatal("event ids must be unique")
	}
}

func TestKafkaPublisherSendsJSON(t *testing.T) {
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var e Event
		if err := json.Unmarshal(val, &e); err != nil {
			return err
		}
		if e.Action != ActionSubmitForDedupe || len(e.QuestionIDs) != 3 || e.NewStatus != "DEDUPE_APPROVED" {
			return fmt.Errorf("unexpected event %+v", e)
		}
		return nil
	})

	p := NewKafkaPublisherWithProducer(producer, "qbank.audit")
	e := NewEvent(ActionSubmitForDedupe, []int64{1, 2, 3}, nil)
	e.NewStatus = "DEDUPE_APPROVED"
	if err := p.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestKafkaPublisherReportsFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(producer, "qbank.audit")
	err := p.Publish(context.Background(), NewEvent(ActionApprove, []int64{1}, nil))
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("err = %v; want ErrOutOfBrokers", err)
	}
	_ = p.Close()
}

func TestEventHandler(t *testing.T) {
	var processed []Action
	h := &EventHandler{
		Filter: func(e *Event) bool { return e.Outcome == OutcomeFailure },
		Process: func(_ context.Context, e *Event) error {
			processed = append(processed, e.Action)
			if e.Action == ActionDelete {
				return errors.New("sink down")
			}
			return nil
		},
	}

	encode := func(e Event) []byte {
		b, _ := json.Marshal(e)
		return b
	}

	cases := []struct {
		name     string
		message  []byte
		wantMark bool
		wantErr  bool
	}{
		{"invalid json", []byte("{"), true, false},
		{"filtered out", encode(NewEvent(ActionApprove, []int64{1}, nil)), true, false},
		{"processed", encode(NewEvent(ActionLink, []int64{2}, errors.New("x"))), true, false},
		{"process error", encode(NewEvent(ActionDelete, []int64{3}, errors.New("x"))), false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mark, err := h.HandleMessage(context.Background(), c.message)
			if mark != c.wantMark || (err != nil) != c.wantErr {
				t.Fatalf("mark=%v err=%v; want mark=%v err=%v", mark, err, c.wantMark, c.wantErr)
			}
		})
	}
	if len(processed) != 2 {
		t.Fatalf("processed = %v", processed)
	}
}
