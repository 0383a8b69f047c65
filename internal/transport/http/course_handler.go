package handlers

import (
	"context"
	"net/http"
	"time"

	"glassbird/internal/application/navigation"
	"glassbird/internal/application/progress"
	"glassbird/internal/application/workspace"
	"glassbird/internal/domain"
	"glassbird/internal/infrastructure/content"
	"glassbird/internal/middleware"
	"glassbird/internal/platform/logger"

	"github.com/gin-gonic/gin"
)

const maxNavigationWait = 10 * time.Second

type CourseHandler struct {
	catalog   *content.Catalog
	workspace *workspace.Registry
	log       *logger.Logger
}

func NewCourseHandler(catalog *content.Catalog, ws *workspace.Registry, log *logger.Logger) *CourseHandler {
	return &CourseHandler{catalog: catalog, workspace: ws, log: log.With("handler", "course")}
}

type courseSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Modules     int    `json:"modules"`
	Lessons     int    `json:"lessons"`
}

type selectLessonReq struct {
	ModuleID int  `json:"module_id" binding:"required"`
	LessonID int  `json:"lesson_id" binding:"required"`
	Compact  bool `json:"compact"`
}

type selectSubLessonReq struct {
	SubLessonID string `json:"sub_lesson_id" binding:"required"`
}

type navigationResp struct {
	navigation.State
	Availability []navigation.SubLessonState `json:"availability"`
}

func (h *CourseHandler) List(c *gin.Context) {
	outlines := h.catalog.List()
	out := make([]courseSummary, 0, len(outlines))
	for _, o := range outlines {
		out = append(out, courseSummary{
			ID:          o.CourseID,
			Title:       o.Title,
			Description: o.Description,
			Modules:     len(o.Modules),
			Lessons:     o.LessonCount(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *CourseHandler) Outline(c *gin.Context) {
	o, err := h.catalog.Get(c.Param("courseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// Enroll requires both a valid bearer token and a signed-in session of the
// same user.
func (h *CourseHandler) Enroll(c *gin.Context) {
	courseID := c.Param("courseId")
	if _, err := h.catalog.Get(courseID); err != nil {
		respondError(c, err)
		return
	}
	m, err := h.workspace.Manager(c.Request.Context(), c.GetString(middleware.ContextSessionID))
	if err != nil {
		respondError(c, err)
		return
	}
	user := m.CurrentUser()
	if user == nil || user.ID != c.GetString(middleware.ContextUserID) {
		respondError(c, domain.ErrUnauthenticated)
		return
	}
	if err := m.Enroll(c.Request.Context(), courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrolled_course_ids": m.CurrentUser().EnrolledCourseIDs})
}

func (h *CourseHandler) Navigation(c *gin.Context) {
	nav, _, ok := h.course(c)
	if !ok {
		return
	}
	if c.Query("wait") == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), maxNavigationWait)
		defer cancel()
		if err := nav.Wait(ctx); err != nil {
			h.log.Warn("navigation wait ended early", "error", err)
		}
	}
	h.respondNavigation(c, nav)
}

func (h *CourseHandler) SelectLesson(c *gin.Context) {
	var req selectLessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	nav, _, ok := h.course(c)
	if !ok {
		return
	}
	if err := nav.SelectLesson(c.Request.Context(), req.ModuleID, req.LessonID, req.Compact); err != nil {
		respondError(c, err)
		return
	}
	h.respondNavigation(c, nav)
}

func (h *CourseHandler) SelectSubLesson(c *gin.Context) {
	var req selectSubLessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	nav, _, ok := h.course(c)
	if !ok {
		return
	}
	if err := nav.SelectSubLesson(c.Request.Context(), req.SubLessonID); err != nil {
		respondError(c, err)
		return
	}
	h.respondNavigation(c, nav)
}

func (h *CourseHandler) Progress(c *gin.Context) {
	_, tracker, ok := h.course(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tracker.Snapshot())
}

func (h *CourseHandler) course(c *gin.Context) (*navigation.Navigator, *progress.Tracker, bool) {
	nav, tracker, err := h.workspace.Course(c.Request.Context(), c.GetString(middleware.ContextProfileID), c.Param("courseId"))
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return nav, tracker, true
}

func (h *CourseHandler) respondNavigation(c *gin.Context, nav *navigation.Navigator) {
	avail := nav.Availability()
	if avail == nil {
		avail = []navigation.SubLessonState{}
	}
	c.JSON(http.StatusOK, navigationResp{State: nav.State(), Availability: avail})
}
