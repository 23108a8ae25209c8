package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"qbank/config"
	"qbank/export"
	"qbank/feedback"
	"qbank/moderation"
	"qbank/types"
)

// RegisterDashboardRoutes registers the bucket pages and their bulk actions.
func RegisterDashboardRoutes(r *gin.Engine, s *Server) {
	r.GET("/", s.handleDashboard)
	g := r.Group("/buckets/:status")
	g.GET("", s.handleBucket)
	g.POST("/action", s.handleBucketAction)
	g.GET("/export", s.handleBucketExport)
}

// bucketCard is one stats card on the dashboard
type bucketCard struct {
	Status types.Status
	Title  string
	Count  int
}

func (s *Server) handleDashboard(c *gin.Context) {
	stats, updated, err := s.app.Stats.Latest()
	// Serve fresh counts when the poller has not run yet or is stale
	if updated.IsZero() || time.Since(updated) > config.StatsPollInterval {
		if refreshErr := s.app.Stats.RefreshStats(c.Request.Context()); refreshErr == nil {
			stats, updated, err = s.app.Stats.Latest()
		} else {
			err = refreshErr
		}
	}

	cards := make([]bucketCard, 0, len(types.Buckets))
	for _, b := range types.Buckets {
		cards = append(cards, bucketCard{Status: b, Title: b.Title(), Count: stats.Count(b)})
	}

	data := gin.H{
		"Cards":          cards,
		"Updated":        updated,
		"Logs":           s.app.Activity.Last(config.DashboardLogLines),
		"RefreshSeconds": int(config.StatsPollInterval / time.Second),
	}
	if err != nil {
		data["Error"] = feedback.ShowError(err)
	}
	s.render(c, http.StatusOK, "dashboard", data)
}

func (s *Server) bucketParam(c *gin.Context) (types.Status, bool) {
	bucket, err := types.ParseStatus(c.Param("status"))
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return "", false
	}
	return bucket, true
}

func (s *Server) handleBucket(c *gin.Context) {
	bucket, ok := s.bucketParam(c)
	if !ok {
		return
	}
	session := s.app.Buckets.OpenBucket(c.Request.Context(), moderation.Session{}, bucket)
	s.renderBucket(c, http.StatusOK, session)
}

func (s *Server) renderBucket(c *gin.Context, status int, session moderation.Session) {
	data := gin.H{
		"Session":  session,
		"Bucket":   session.Bucket,
		"Title":    session.Bucket.Title(),
		"Action":   session.Action(),
		"Flagged":  session.Bucket == types.StatusDuplicateFlagged,
		"Selected": session.SelectionSize(),
	}
	if session.Err != nil {
		data["Error"] = feedback.ShowError(session.Err)
	}
	s.render(c, status, "bucket", data)
}

func (s *Server) handleBucketAction(c *gin.Context) {
	bucket, ok := s.bucketParam(c)
	if !ok {
		return
	}
	ids, err := parseIDs(c.PostFormArray("question_id"))
	if err != nil {
		s.redirect(c, bucketURL(bucket), feedback.LevelError, err.Error())
		return
	}

	// The bucket is reloaded so only ids still in it can be submitted
	session := s.app.Buckets.OpenBucket(c.Request.Context(), moderation.Session{}, bucket)
	if session.State != moderation.ModalOpen {
		s.renderBucket(c, http.StatusBadGateway, session)
		return
	}
	session = session.Select(ids...)
	if !session.ActionEnabled() {
		s.redirect(c, bucketURL(bucket), feedback.LevelError, "Select at least one question first.")
		return
	}

	count := session.SelectionSize()
	verb := session.Action().Verb
	next, err := s.app.Buckets.Submit(c.Request.Context(), session)
	if err != nil {
		s.renderBucket(c, http.StatusBadGateway, next)
		return
	}
	s.redirect(c, "/", feedback.LevelSuccess, fmt.Sprintf("%s: %d question(s) updated.", verb, count))
}

func (s *Server) handleBucketExport(c *gin.Context) {
	bucket, ok := s.bucketParam(c)
	if !ok {
		return
	}
	questions, err := s.app.Client.ListBucket(c.Request.Context(), bucket)
	if err != nil {
		s.redirect(c, bucketURL(bucket), feedback.LevelError, feedback.Message(err))
		return
	}
	data, err := export.QuestionsWorkbook(bucket.Title(), questions)
	if err != nil {
		s.redirect(c, bucketURL(bucket), feedback.LevelError, err.Error())
		return
	}
	name := fmt.Sprintf("qbank-%s.xlsx", strings.ToLower(string(bucket)))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func bucketURL(bucket types.Status) string {
	return "/buckets/" + string(bucket)
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid question id %q", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
