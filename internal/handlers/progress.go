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

type ProgressHandler struct {
	log             *logger.Logger
	progressService services.ProgressService
	leaderboard     services.LeaderboardService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService, leaderboardService services.LeaderboardService) *ProgressHandler {
	return &ProgressHandler{
		log:             log.With("handler", "ProgressHandler"),
		progressService: progressService,
		leaderboard:     leaderboardService,
	}
}

type submitAnswerRequest struct {
	Correct bool `json:"correct"`
}

func (h *ProgressHandler) SubmitAnswer(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	challengeID, err := strconv.Atoi(c.Param("id"))
	if err != nil || challengeID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid_challenge_id", err)
		return
	}

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	result, err := h.progressService.SubmitAnswer(c.Request.Context(), rd.UserID, challengeID, req.Correct)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChallengeNotFound):
			RespondError(c, http.StatusNotFound, "challenge_not_found", err)
		case errors.Is(err, services.ErrUserProgressNotFound):
			RespondError(c, http.StatusNotFound, "user_progress_not_found", err)
		default:
			h.log.Error("SubmitAnswer failed", "error", err, "user_id", rd.UserID, "challenge_id", challengeID)
			RespondError(c, http.StatusInternalServerError, "submit_answer_failed", err)
		}
		return
	}

	// A completed attempt changes the points ordering; drop the projection.
	if result.Status == services.AttemptStatusOK && h.leaderboard != nil {
		h.leaderboard.Invalidate(c.Request.Context())
	}
	RespondOK(c, result)
}

func (h *ProgressHandler) GetUserProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	progress, err := h.progressService.GetUserProgress(c.Request.Context(), rd.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserProgressNotFound) {
			RespondError(c, http.StatusNotFound, "user_progress_not_found", err)
			return
		}
		h.log.Error("GetUserProgress failed", "error", err, "user_id", rd.UserID)
		RespondError(c, http.StatusInternalServerError, "get_progress_failed", err)
		return
	}
	RespondOK(c, progress)
}

func (h *ProgressHandler) GetLesson(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	lessonID, err := strconv.Atoi(c.Param("id"))
	if err != nil || lessonID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}

	lesson, err := h.progressService.GetLesson(c.Request.Context(), rd.UserID, lessonID)
	if err != nil {
		if errors.Is(err, services.ErrLessonNotFound) {
			RespondError(c, http.StatusNotFound, "lesson_not_found", err)
			return
		}
		h.log.Error("GetLesson failed", "error", err, "user_id", rd.UserID, "lesson_id", lessonID)
		RespondError(c, http.StatusInternalServerError, "get_lesson_failed", err)
		return
	}
	RespondOK(c, lesson)
}

func (h *ProgressHandler) GetResumePoint(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	point, err := h.progressService.GetResumePoint(c.Request.Context(), rd.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveCourse):
			RespondError(c, http.StatusConflict, "no_active_course", err)
		case errors.Is(err, services.ErrUserProgressNotFound):
			RespondError(c, http.StatusNotFound, "user_progress_not_found", err)
		case errors.Is(err, services.ErrCourseNotFound):
			RespondError(c, http.StatusNotFound, "course_not_found", err)
		default:
			h.log.Error("GetResumePoint failed", "error", err, "user_id", rd.UserID)
			RespondError(c, http.StatusInternalServerError, "resume_point_failed", err)
		}
		return
	}
	RespondOK(c, point)
}

func (h *ProgressHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.leaderboard.GetLeaderboard(c.Request.Context())
	if err != nil {
		h.log.Error("GetLeaderboard failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "leaderboard_failed", err)
		return
	}
	RespondOK(c, gin.H{"entries": entries})
}
