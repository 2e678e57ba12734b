// Package ranking exposes the HTTP handlers of the rank gateway: a single
// rank-set endpoint and the bulk promote/demote endpoints.
package ranking

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fpig97-cmd/SKYBOT/internal/logger"
	"github.com/fpig97-cmd/SKYBOT/internal/roblox"
)

// Session is the subset of the Roblox client the handlers need. It is
// satisfied by *roblox.Client; tests substitute a fake.
type Session interface {
	ResolveUserID(ctx context.Context, username string) (int64, error)
	SetRank(ctx context.Context, groupID, userID int64, sel roblox.Selector) (roblox.Role, error)
	ChangeRank(ctx context.Context, groupID, userID int64, delta int) (*roblox.RankChange, error)
}

// Handler serves the rank endpoints for one group.
type Handler struct {
	log     *logger.Logger
	session Session
	groupID int64
}

// NewHandler creates a handler bound to the given session and group.
func NewHandler(log *logger.Logger, session Session, groupID int64) *Handler {
	return &Handler{
		log:     log,
		session: session,
		groupID: groupID,
	}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetRank handles POST /rank. The rank field is interpreted once at this
// boundary: an all-digits string (or a JSON number) selects by numeric rank
// level, anything else selects by role name. Any failure past validation is a
// blanket 500; unlike the bulk endpoints, this endpoint stops at the first
// error and reports it wholly.
func (h *Handler) SetRank(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Username == "" || !req.Rank.Present() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username and rank are required"})
		return
	}

	ctx := c.Request.Context()

	userID, err := h.session.ResolveUserID(ctx, req.Username)
	if err != nil {
		h.log.Error("Rank change failed", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	sel := roblox.ParseSelector(req.Rank.String())
	newRole, err := h.session.SetRank(ctx, h.groupID, userID, sel)
	if err != nil {
		h.log.Error("Rank change failed",
			"username", req.Username,
			"user_id", userID,
			"rank", req.Rank.String(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, RankResponse{
		Success:   true,
		UserID:    userID,
		Username:  req.Username,
		RankInput: req.Rank,
		NewRole:   newRole,
	})
}

// BulkPromote handles POST /bulk-promote.
func (h *Handler) BulkPromote(c *gin.Context) {
	h.bulkStep(c, +1)
}

// BulkDemote handles POST /bulk-demote.
func (h *Handler) BulkDemote(c *gin.Context) {
	h.bulkStep(c, -1)
}

// bulkStep walks the username list strictly in input order, one Roblox
// round-trip at a time. Each username's outcome is captured independently; a
// failed entry never aborts the rest of the batch. Once the body has
// validated, the response is 200 regardless of how many entries failed.
func (h *Handler) bulkStep(c *gin.Context, delta int) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if len(req.Usernames) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "usernames must be a non-empty array"})
		return
	}

	ctx := c.Request.Context()
	results := make([]BulkResultEntry, 0, len(req.Usernames))
	for _, username := range req.Usernames {
		results = append(results, h.stepOne(ctx, username, delta))
	}

	c.JSON(http.StatusOK, BulkResponse{Success: true, Results: results})
}

func (h *Handler) stepOne(ctx context.Context, username string, delta int) BulkResultEntry {
	userID, err := h.session.ResolveUserID(ctx, username)
	if err == nil {
		var change *roblox.RankChange
		change, err = h.session.ChangeRank(ctx, h.groupID, userID, delta)
		if err == nil {
			return BulkResultEntry{
				Username: username,
				Success:  true,
				OldRole:  &change.OldRole,
				NewRole:  &change.NewRole,
			}
		}
	}

	h.log.Error("Bulk rank step failed",
		"username", username,
		"delta", delta,
		"error", err,
	)
	return BulkResultEntry{Username: username, Success: false, Error: err.Error()}
}
