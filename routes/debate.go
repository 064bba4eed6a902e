package routes

import (
	"net/http"

	"debatehub/models"

	"github.com/gin-gonic/gin"
)

type createDebateRequest struct {
	Topic        string `json:"topic" binding:"required"`
	Description  string `json:"description"`
	SideAName    string `json:"sideAName"`
	SideBName    string `json:"sideBName"`
	Mode         string `json:"mode" binding:"required"`
	MaxArguments int    `json:"maxArguments"`
}

type joinRequest struct {
	Side string `json:"side" binding:"required"`
}

type argumentRequest struct {
	Content string `json:"content" binding:"required"`
}

type evaluateRequest struct {
	DebateID string `json:"debateId" binding:"required"`
}

// debateView is the assembled read model for a single debate
type debateView struct {
	Debate       *models.Debate       `json:"debate"`
	Participants []models.Participant `json:"participants"`
	Arguments    []models.Argument    `json:"arguments"`
	Result       *models.Result       `json:"result,omitempty"`
	TurnState    any                  `json:"turnState,omitempty"`
}

func (h *Handler) CreateDebate(c *gin.Context) {
	var req createDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	debate, err := h.Sessions.CreateDebate(
		c.Request.Context(),
		c.GetString("userId"),
		req.Topic,
		req.Description,
		req.SideAName,
		req.SideBName,
		models.Mode(req.Mode),
		req.MaxArguments,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, debate)
}

func (h *Handler) ListDebates(c *gin.Context) {
	debates, err := h.Store.ListDebates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debates": debates})
}

// GetDebate returns the debate with its roster, arguments, verdict, and the
// live turn clocks. A stored result always reads as completed, even if the
// status update behind it was lost.
func (h *Handler) GetDebate(c *gin.Context) {
	debateID := c.Param("id")

	debate, err := h.Store.GetDebate(c.Request.Context(), debateID)
	if err != nil {
		respondError(c, err)
		return
	}
	participants, err := h.Store.ListParticipants(c.Request.Context(), debateID)
	if err != nil {
		respondError(c, err)
		return
	}
	arguments, err := h.Store.ListArguments(c.Request.Context(), debateID)
	if err != nil {
		respondError(c, err)
		return
	}

	view := debateView{
		Debate:       debate,
		Participants: participants,
		Arguments:    arguments,
	}

	result, err := h.Store.GetResult(c.Request.Context(), debateID)
	if err != nil && !models.IsKind(err, models.KindNotFound) {
		respondError(c, err)
		return
	}
	if result != nil {
		view.Result = result
		debate.Status = models.StatusCompleted
	}

	if state := h.Sessions.Snapshot(debateID); state != nil {
		view.TurnState = state
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) JoinDebate(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	err := h.Sessions.JoinSide(c.Request.Context(), c.Param("id"), c.GetString("userId"), models.Side(req.Side))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined debate"})
}

func (h *Handler) StartDebate(c *gin.Context) {
	err := h.Sessions.StartOffline(c.Request.Context(), c.Param("id"), c.GetString("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Debate started"})
}

func (h *Handler) SubmitArgument(c *gin.Context) {
	var req argumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	argument, err := h.Sessions.SubmitArgument(c.Request.Context(), c.Param("id"), c.GetString("userId"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, argument)
}

func (h *Handler) EndDebate(c *gin.Context) {
	err := h.Sessions.EndDebate(c.Request.Context(), c.Param("id"), c.GetString("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Debate ended"})
}

// EvaluateDebate judges the debate named in the path
func (h *Handler) EvaluateDebate(c *gin.Context) {
	result, err := h.Evaluator.Evaluate(c.Request.Context(), c.Param("id"), c.GetString("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// EvaluateDebateByBody is the older evaluate endpoint that takes the debate
// ID in the request body instead of the path.
func (h *Handler) EvaluateDebateByBody(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": "debateId is required"})
		return
	}

	result, err := h.Evaluator.Evaluate(c.Request.Context(), req.DebateID, c.GetString("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
