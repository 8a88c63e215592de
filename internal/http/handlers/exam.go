package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulavia/aulavia-backend/internal/engine/exam"
	"github.com/aulavia/aulavia-backend/internal/history"
	"github.com/aulavia/aulavia-backend/internal/http/response"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
	"github.com/aulavia/aulavia-backend/internal/types"
)

type ExamHandler struct {
	log     *logger.Logger
	exams   exam.Service
	history history.Store
}

func NewExamHandler(log *logger.Logger, exams exam.Service, store history.Store) *ExamHandler {
	return &ExamHandler{
		log:     log.With("handler", "ExamHandler"),
		exams:   exams,
		history: store,
	}
}

type generateExamRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty"`
	Subject    string `json:"subject"`
}

func (h *ExamHandler) GenerateExam(c *gin.Context) {
	var req generateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	res, err := h.exams.Generate(c.Request.Context(), exam.GenerateRequest{
		Topic:      req.Topic,
		Count:      req.Count,
		Difficulty: req.Difficulty,
		Subject:    req.Subject,
	})
	if err != nil {
		h.log.Error("GenerateExam failed", "topic", req.Topic, "error", err)
		response.RespondEngineError(c, err)
		return
	}

	recordEvent(c.Request.Context(), h.log, h.history, clientID(c), "exam", res.Title, res)
	response.RespondOK(c, res)
}

type gradeExamRequest struct {
	Exam    types.Exam        `json:"exam" binding:"required"`
	Answers map[string]string `json:"answers"`
}

func (h *ExamHandler) GradeExam(c *gin.Context) {
	var req gradeExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Exam.ValidateForGrading(); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_exam", err)
		return
	}

	res, err := h.exams.Grade(c.Request.Context(), req.Exam, req.Answers)
	if err != nil {
		h.log.Error("GradeExam failed", "error", err)
		response.RespondEngineError(c, err)
		return
	}

	recordEvent(c.Request.Context(), h.log, h.history, clientID(c), "grading", req.Exam.Title, res)
	response.RespondOK(c, res)
}
