package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/requestdata"
	"github.com/devlingo/devlingo-backend/internal/services"
)

type CourseHandler struct {
	log             *logger.Logger
	courseService   services.CourseService
	progressService services.ProgressService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService, progressService services.ProgressService) *CourseHandler {
	return &CourseHandler{
		log:             log.With("handler", "CourseHandler"),
		courseService:   courseService,
		progressService: progressService,
	}
}

func (h *CourseHandler) ListUserCourses(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	courses, err := h.courseService.GetUserCourses(c.Request.Context(), rd.UserID)
	if err != nil {
		h.log.Error("ListUserCourses failed", "error", err, "user_id", rd.UserID)
		RespondError(c, http.StatusInternalServerError, "load_courses_failed", err)
		return
	}
	RespondOK(c, courses)
}

func (h *CourseHandler) ActivateCourse(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || courseID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}

	progress, err := h.progressService.SelectActiveCourse(c.Request.Context(), rd.UserID, courseID, services.Profile{
		Name:     rd.UserName,
		ImageSrc: rd.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			RespondError(c, http.StatusNotFound, "course_not_found", err)
			return
		}
		h.log.Error("ActivateCourse failed", "error", err, "user_id", rd.UserID, "course_id", courseID)
		RespondError(c, http.StatusInternalServerError, "activate_course_failed", err)
		return
	}
	RespondOK(c, progress)
}
