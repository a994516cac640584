package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/retailops/shelfbrief/internal/service"
	"github.com/rs/zerolog/log"
)

type BriefHandler struct {
	service *service.BriefService
}

func NewBriefHandler(service *service.BriefService) *BriefHandler {
	return &BriefHandler{service: service}
}

// GetBrief returns the executive brief for the requested sales window.
func (h *BriefHandler) GetBrief(c *gin.Context) {
	windowDays, ok := h.parseWindow(c)
	if !ok {
		return
	}

	brief, err := h.service.GetBrief(c.Request.Context(), windowDays)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate brief")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate brief"})
		return
	}

	c.JSON(http.StatusOK, brief)
}

// GetFacts returns the validated fact tables without classification, useful
// for auditing why a SKU did or did not produce an action.
func (h *BriefHandler) GetFacts(c *gin.Context) {
	windowDays, ok := h.parseWindow(c)
	if !ok {
		return
	}

	facts, err := h.service.GetFacts(c.Request.Context(), windowDays)
	if err != nil {
		log.Error().Err(err).Msg("failed to build facts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build facts"})
		return
	}

	c.JSON(http.StatusOK, facts)
}

// Invalidate drops cached briefs so the next request recomputes.
func (h *BriefHandler) Invalidate(c *gin.Context) {
	if err := h.service.Invalidate(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("failed to invalidate brief cache")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invalidate brief cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}

func (h *BriefHandler) parseWindow(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("window_days", "30")
	windowDays, err := strconv.Atoi(raw)
	if err != nil || windowDays <= 0 || windowDays > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_days must be an integer between 1 and 365"})
		return 0, false
	}
	return windowDays, true
}
