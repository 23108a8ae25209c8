package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qbank/feedback"
	"qbank/moderation"
	"qbank/types"
)

// RegisterReportRoutes registers the duplicate report and its resolutions.
func RegisterReportRoutes(r *gin.Engine, s *Server) {
	g := r.Group("/questions/:id")
	g.GET("/report", s.handleReport)
	g.POST("/link", s.handleLink)
	g.POST("/delete", s.handleDelete)
}

var flaggedURL = bucketURL(types.StatusDuplicateFlagged)

func reportURL(id int64) string {
	return fmt.Sprintf("/questions/%d/report", id)
}

func questionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "unknown question")
		return 0, false
	}
	return id, true
}

func (s *Server) handleReport(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	report, err := s.app.Reports.Load(c.Request.Context(), id)
	if err != nil {
		s.redirect(c, flaggedURL, feedback.LevelError, feedback.Message(err))
		return
	}
	if !report.Open {
		s.redirect(c, flaggedURL, feedback.LevelInfo, fmt.Sprintf("No similar questions found for #%d.", id))
		return
	}
	s.render(c, http.StatusOK, "report", gin.H{
		"Report":    report,
		"Relations": []types.RelationType{types.RelationChild, types.RelationParent, types.RelationParallel},
	})
}

func (s *Server) handleLink(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	relation, ok := types.ParseRelationType(c.PostForm("relation_type"))
	if !ok {
		s.redirect(c, reportURL(id), feedback.LevelError, "Unknown relation type.")
		return
	}

	ctx := c.Request.Context()
	report, err := s.app.Reports.Load(ctx, id)
	if err != nil {
		s.redirect(c, reportURL(id), feedback.LevelError, feedback.Message(err))
		return
	}

	var target int64
	if relation != types.RelationIgnore {
		if target, err = strconv.ParseInt(c.PostForm("target_id"), 10, 64); err != nil {
			s.redirect(c, reportURL(id), feedback.LevelError, "A target question is required.")
			return
		}
	}

	if _, _, err := s.app.Reports.Link(ctx, report, moderation.Session{}, target, relation); err != nil {
		s.redirect(c, reportURL(id), feedback.LevelError, feedback.Message(err))
		return
	}
	msg := fmt.Sprintf("Linked #%d as %s of #%d.", id, relation, target)
	if relation == types.RelationIgnore {
		msg = fmt.Sprintf("Marked #%d as unique.", id)
	}
	s.redirect(c, "/", feedback.LevelSuccess, msg)
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	report := moderation.Report{QuestionID: id, Open: true}
	if c.PostForm("confirm") == "yes" {
		report = report.Confirm()
	}

	_, _, err := s.app.Reports.Delete(c.Request.Context(), report, moderation.Session{})
	switch {
	case errors.Is(err, moderation.ErrNotConfirmed):
		s.redirect(c, reportURL(id), feedback.LevelError, "Tick the confirmation box to delete this question.")
	case err != nil:
		s.redirect(c, reportURL(id), feedback.LevelError, feedback.Message(err))
	default:
		s.redirect(c, "/", feedback.LevelSuccess, fmt.Sprintf("Deleted #%d.", id))
	}
}
