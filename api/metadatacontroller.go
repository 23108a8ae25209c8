package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qbank/app"
	"qbank/feedback"
)

// RegisterMetadataRoutes registers the option lists behind the generation form's selects.
func RegisterMetadataRoutes(r *gin.Engine, a *app.App) {
	g := r.Group("/metadata")
	g.GET("/subjects", func(c *gin.Context) {
		subjects, err := a.Metadata.Subjects(c.Request.Context())
		respondList(c, subjects, err)
	})
	g.GET("/subjects/:id/topics", func(c *gin.Context) {
		id, ok := subjectID(c)
		if !ok {
			return
		}
		topics, err := a.Metadata.Topics(c.Request.Context(), id)
		respondList(c, topics, err)
	})
	g.GET("/subjects/:id/course_outcomes", func(c *gin.Context) {
		id, ok := subjectID(c)
		if !ok {
			return
		}
		outcomes, err := a.Metadata.CourseOutcomes(c.Request.Context(), id)
		respondList(c, outcomes, err)
	})
}

func subjectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return 0, false
	}
	return id, true
}

func respondList[T any](c *gin.Context, items []T, err error) {
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": feedback.Message(err)})
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}
