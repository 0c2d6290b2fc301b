package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ballotline/ballotline-api/internal/domain/vote"
	"github.com/ballotline/ballotline-api/internal/logger"
	"github.com/ballotline/ballotline-api/internal/middleware"
	"github.com/ballotline/ballotline-api/internal/response"
)

// VoteHandler serves the vote casting endpoint
type VoteHandler struct {
	ledger *vote.Ledger
	log    *log.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(ledger *vote.Ledger) *VoteHandler {
	return &VoteHandler{
		ledger: ledger,
		log:    logger.Handler("vote"),
	}
}

// CastVoteRequest represents a request to vote for a candidate
type CastVoteRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`

	// Anonymous hides the voter in vote listings; authenticated voters are
	// still recorded for uniqueness
	Anonymous bool `json:"anonymous"`
}

// CastVote handles POST /api/events/:id/vote. Anonymous callers are allowed
// and throttled by client address.
func (h *VoteHandler) CastVote(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		response.BadRequestError(c, "candidate_id must be a valid UUID")
		return
	}

	receipt, err := h.ledger.Cast(vote.CastRequest{
		EventID:     eventID,
		CandidateID: candidateID,
		VoterID:     middleware.UserID(c),
		Anonymous:   req.Anonymous,
		ClientIP:    c.ClientIP(),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "vote recorded", receipt)
}
