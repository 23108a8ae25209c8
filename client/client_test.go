package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"qbank/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/v1", opts...)
}

func TestRequestErrorExtractsDetail(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"string detail", http.StatusNotFound, `{"detail":"No questions found"}`, "No questions found"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","marks"],"msg":"ensure this value is less than or equal to 100"}]}`, "marks: ensure this value is less than or equal to 100"},
		{"no detail field", http.StatusInternalServerError, `{"error":"boom"}`, "Request failed with status 500"},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "Request failed with status 502"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				_, _ = io.WriteString(w, c.body)
			})

			_, err := cl.GetStats(context.Background())
			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected RequestError, got %T: %v", err, err)
			}
			if reqErr.Status != c.status {
				t.Fatalf("status = %d; want %d", reqErr.Status, c.status)
			}
			if reqErr.Detail != c.wantDetail {
				t.Fatalf("detail = %q; want %q", reqErr.Detail, c.wantDetail)
			}
		})
	}
}

func TestTimeoutReturnsTimeoutError(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))

	_, err := cl.GetStats(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	var te *TimeoutError
	if !errors.As(err, &te) || te.Endpoint != "/dashboard/stats" {
		t.Fatalf("expected TimeoutError for /dashboard/stats, got %#v", err)
	}
}

func TestSubmitForDedupeSendsSelectionAndStatus(t *testing.T) {
	var got StatusUpdateRequest
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/dashboard/submit-for-dedupe" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"message":"ok","count":3}`)
	})

	res, err := cl.SubmitForDedupe(context.Background(), []int64{3, 1, 2})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Count != 3 {
		t.Fatalf("count = %d", res.Count)
	}
	if len(got.QuestionIDs) != 3 || got.QuestionIDs[0] != 1 || got.QuestionIDs[2] != 3 {
		t.Fatalf("ids = %v", got.QuestionIDs)
	}
	if got.NewStatus != types.StatusDedupeApproved {
		t.Fatalf("new_status = %s", got.NewStatus)
	}
}

func TestListBucketTreatsMalformedBodyAsEmpty(t *testing.T) {
	for _, body := range []string{"", "null", "{not json", `{"unexpected":"object"}`} {
		cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})
		qs, err := cl.ListBucket(context.Background(), types.StatusApproved)
		if err != nil {
			t.Fatalf("body %q: unexpected error %v", body, err)
		}
		if len(qs) != 0 {
			t.Fatalf("body %q: expected no questions, got %d", body, len(qs))
		}
	}
}

func TestQuestionsDecodeNaiveTimestamps(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/dashboard/questions/APPROVED":
			_, _ = io.WriteString(w, `[{"id": 1, "question_text": "Define velocity.", "created_at": "2024-03-01T10:00:00.123456", "status": "APPROVED"}]`)
		case "/api/v1/questions/manual":
			_, _ = io.WriteString(w, `{"id": 2, "question_text": "Define speed.", "metadata": {"subject": "Physics"}, "created_at": "2024-03-01 10:00:00", "status": "DEDUPE_PENDING"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	qs, err := cl.ListBucket(context.Background(), types.StatusApproved)
	if err != nil {
		t.Fatalf("ListBucket: %v", err)
	}
	if len(qs) != 1 || !qs[0].CreatedAt.Truncate(time.Second).Equal(want) {
		t.Fatalf("bucket questions = %+v", qs)
	}
	if qs[0].CreatedAt.Nanosecond() != 123456000 {
		t.Fatalf("fractional seconds lost: %v", qs[0].CreatedAt.Time)
	}

	added, err := cl.AddManualQuestion(context.Background(), ManualRequest{QuestionText: "Define speed.", Subject: "Physics"})
	if err != nil {
		t.Fatalf("AddManualQuestion: %v", err)
	}
	if len(added) != 1 || !added[0].CreatedAt.Equal(want) {
		t.Fatalf("manual question = %+v", added)
	}
}

func TestLinkIgnoreSendsNullTarget(t *testing.T) {
	var raw map[string]interface{}
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = io.WriteString(w, `{"message":"linked"}`)
	})

	target := int64(9)
	err := cl.LinkQuestions(context.Background(), LinkRequest{QuestionID: 4, TargetID: &target, RelationType: types.RelationIgnore})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if v, ok := raw["target_id"]; !ok || v != nil {
		t.Fatalf("target_id = %v (present=%v); want explicit null", v, ok)
	}
	if raw["relation_type"] != "IGNORE" {
		t.Fatalf("relation_type = %v", raw["relation_type"])
	}
}

func TestLinkWithoutTargetIsRejectedLocally(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})
	if err := cl.LinkQuestions(context.Background(), LinkRequest{QuestionID: 4, RelationType: types.RelationChild}); err == nil {
		t.Fatal("expected error")
	}
}

func TestGenerateFromNotesIsMultipart(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
			t.Errorf("content type = %q", ct)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("subject") != "Physics" || r.FormValue("marks") != "5" || r.FormValue("custom_prompt") != "focus on graphs" {
			t.Errorf("unexpected fields: %v", r.MultipartForm.Value)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			data, _ := io.ReadAll(f)
			if hdr.Filename != "notes.pdf" || string(data) != "%PDF-1.4" {
				t.Errorf("file = %s %q", hdr.Filename, data)
			}
		}
		_, _ = io.WriteString(w, `{"id":11,"question_text":"Q","metadata":{"subject":"Physics","topic":"Kinematics","bloom_level":"RBT3","difficulty":"EASY","marks":5}}`)
	})

	qs, err := cl.GenerateFromNotes(context.Background(), NotesRequest{
		GenerateRequest: GenerateRequest{Subject: "Physics", Topic: "Kinematics", BloomLevel: "RBT3", Difficulty: "EASY", Marks: 5},
		FileName:        "notes.pdf",
		File:            strings.NewReader("%PDF-1.4"),
		CustomPrompt:    "focus on graphs",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) != 1 || qs[0].ID != 11 {
		t.Fatalf("questions = %+v", qs)
	}
}

func TestDecodeQuestionsShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"single", `{"id":1,"question_text":"a","metadata":{}}`, 1},
		{"array", `[{"id":1},{"id":2}]`, 2},
		{"wrapped", `{"questions":[{"id":1},{"id":2},{"id":3}],"total":3}`, 3},
		{"null", `null`, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			qs, err := decodeQuestions(json.RawMessage(c.body))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(qs) != c.want {
				t.Fatalf("got %d questions; want %d", len(qs), c.want)
			}
		})
	}
}

func TestDeleteQuestionNotFound(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/questions/7" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Question not found"}`)
	})
	err := cl.DeleteQuestion(context.Background(), 7)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequestEmptyBodyIsNoData(t *testing.T) {
	var gotRequestID string
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	})

	result := map[string]interface{}{"untouched": true}
	if err := cl.Request(context.Background(), http.MethodPost, "/dashboard/link-questions", map[string]int{"question_id": 1}, &result); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if result["untouched"] != true {
		t.Errorf("result = %v, want it left alone", result)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestListQuestionsEncodesFilter(t *testing.T) {
	var gotQuery string
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/questions/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"questions": [{"id": 4, "question_text": "Define work."}]}`)
	})

	qs, err := cl.ListQuestions(context.Background(), QuestionFilter{Subject: "Physics", BloomLevel: "RBT1", Limit: 5})
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if gotQuery != "bloom_level=RBT1&limit=5&subject=Physics" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(qs) != 1 || qs[0].ID != 4 {
		t.Errorf("questions = %+v", qs)
	}
}

func TestGetQuestionAndBatchPlan(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/questions/9":
			_, _ = io.WriteString(w, `{"id": 9, "question_text": "Define power.", "status": "APPROVED"}`)
		case "/api/v1/batch/plan/3":
			_, _ = io.WriteString(w, `{"id": 3, "plan_name": "Midterm", "total_questions": 1, "questions": [{"id": 9}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail": "Not found"}`)
		}
	})

	q, err := cl.GetQuestion(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if q.Status != types.StatusApproved {
		t.Errorf("status = %s", q.Status)
	}

	plan, err := cl.GetBatchPlan(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetBatchPlan: %v", err)
	}
	if plan.PlanName != "Midterm" || len(plan.Questions) != 1 {
		t.Errorf("plan = %+v", plan)
	}

	if _, err := cl.GetQuestion(context.Background(), 10); !IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}
