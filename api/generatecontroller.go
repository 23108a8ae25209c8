package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"qbank/config"
	"qbank/feedback"
	"qbank/generation"
	"qbank/types"
)

// maxNotesSize bounds the uploaded notes PDF
const maxNotesSize = 32 << 20

// RegisterGenerateRoutes registers the question generation form.
func RegisterGenerateRoutes(r *gin.Engine, s *Server) {
	r.GET("/generate", s.handleGenerateForm)
	r.POST("/generate", s.handleGenerate)
	r.POST("/generate/reload-options", s.handleReloadOptions)
}

var (
	bloomLevels  = []string{types.BloomRemember, types.BloomUnderstand, types.BloomApply, types.BloomAnalyze, types.BloomEvaluate, types.BloomCreate}
	difficulties = []string{types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard}
)

func (s *Server) handleGenerateForm(c *gin.Context) {
	form := generation.NewForm()
	if mode, ok := generation.ParseMode(c.Query("mode")); ok {
		form.Mode = mode
	}
	if id, err := strconv.ParseInt(c.Query("subject_id"), 10, 64); err == nil {
		form.SubjectID = id
	}
	opts, err := s.app.Cascade.Load(c.Request.Context(), form)
	s.renderGenerate(c, http.StatusOK, form, opts, nil, err)
}

func (s *Server) handleGenerate(c *gin.Context) {
	ctx := c.Request.Context()
	form, err := bindForm(c)
	if err != nil {
		opts, _ := s.app.Cascade.Load(ctx, form)
		s.renderGenerate(c, http.StatusBadRequest, form, opts, nil, err)
		return
	}

	// Subject name comes from the cascade so the backend sees the canonical name
	var opts generation.Options
	if form.SubjectID != 0 {
		topic, outcomes := form.Topic, form.CourseOutcomeIDs
		form, opts, err = s.app.Cascade.SelectSubject(ctx, form, form.SubjectID)
		form.Topic, form.CourseOutcomeIDs = topic, outcomes
		if err != nil {
			s.renderGenerate(c, http.StatusBadGateway, form, opts, nil, err)
			return
		}
	} else {
		opts, _ = s.app.Cascade.Load(ctx, form)
	}

	questions, err := s.app.Generate.Submit(ctx, form)
	var verr *generation.ValidationError
	switch {
	case errors.As(err, &verr):
		s.renderGenerate(c, http.StatusUnprocessableEntity, form, opts, nil, err)
	case err != nil:
		s.renderGenerate(c, http.StatusBadGateway, form, opts, nil, err)
	default:
		s.renderGenerate(c, http.StatusOK, form, opts, generation.Render(questions), nil)
	}
}

// handleReloadOptions drops the cached subject list and the chosen subject's
// topics and outcomes, then sends the browser back to the form.
func (s *Server) handleReloadOptions(c *gin.Context) {
	query := url.Values{}
	if mode, ok := generation.ParseMode(c.PostForm("mode")); ok {
		query.Set("mode", string(mode))
	}
	id, err := strconv.ParseInt(c.PostForm("subject_id"), 10, 64)
	if err != nil || id < 0 {
		id = 0
	}
	if id > 0 {
		query.Set("subject_id", strconv.FormatInt(id, 10))
	}
	location := "/generate?" + query.Encode()

	if err := s.app.Metadata.Invalidate(c.Request.Context(), id); err != nil {
		s.redirect(c, location, feedback.LevelError, "Could not reload options: "+feedback.Message(err))
		return
	}
	s.redirect(c, location, feedback.LevelInfo, "Options reloaded.")
}

func (s *Server) renderGenerate(c *gin.Context, status int, form generation.Form, opts generation.Options, cards []generation.ResultCard, err error) {
	data := gin.H{
		"Form":             form,
		"Options":          opts,
		"Modes":            generation.Modes,
		"BloomLevels":      bloomLevels,
		"Difficulties":     difficulties,
		"MinMarks":         config.MinMarks,
		"MaxMarks":         config.MaxMarks,
		"Cards":            cards,
		"Loader":           s.app.Generate.NewLoader(),
		"SelectedOutcomes": selectedSet(form.CourseOutcomeIDs),
		"ProgressMessages": config.ProgressMessages,
		"ProgressMillis":   int(s.app.Generate.ProgressInterval().Milliseconds()),
	}
	var verr *generation.ValidationError
	if errors.As(err, &verr) {
		data["Invalid"] = verr
	} else if err != nil {
		data["Error"] = feedback.ShowError(err)
	}
	s.render(c, status, "generate", data)
}

// bindForm reads the submitted form. Parse failures still return the fields read so far.
func bindForm(c *gin.Context) (generation.Form, error) {
	form := generation.NewForm()
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(maxNotesSize); err != nil {
			return form, err
		}
	}

	mode, ok := generation.ParseMode(c.PostForm("mode"))
	if !ok {
		return form, errors.New("unknown generation mode")
	}
	form.Mode = mode
	form.SubjectID, _ = strconv.ParseInt(c.PostForm("subject_id"), 10, 64)
	form.Subject = strings.TrimSpace(c.PostForm("subject"))
	form.Topic = strings.TrimSpace(c.PostForm("topic"))
	form.BloomLevel = c.PostForm("bloom_level")
	form.Difficulty = c.PostForm("difficulty")
	form.QuestionText = c.PostForm("question_text")
	form.CustomPrompt = c.PostForm("custom_prompt")

	// Out of range or malformed marks are left for Validate to report
	if marks, err := strconv.Atoi(strings.TrimSpace(c.PostForm("marks"))); err == nil {
		form.Marks = marks
	} else {
		form.Marks = 0
	}

	ids, err := parseIDs(c.PostFormArray("course_outcome_id"))
	if err != nil {
		return form, err
	}
	form.CourseOutcomeIDs = ids

	if form.Mode == generation.ModeNotes {
		header, err := c.FormFile("file")
		if err == nil {
			f, err := header.Open()
			if err != nil {
				return form, err
			}
			defer f.Close()
			if form.File, err = io.ReadAll(f); err != nil {
				return form, err
			}
			form.FileName = header.Filename
		}
	}
	return form, nil
}

func selectedSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
