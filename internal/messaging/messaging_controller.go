package messaging

import (
	"net/http"
	"strconv"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/DhavalSuthar-24/dugout/pkg/responses"
	"github.com/DhavalSuthar-24/dugout/pkg/utils"
	"github.com/DhavalSuthar-24/dugout/pkg/validator"
	"github.com/gin-gonic/gin"
)

type MessagingController struct {
	svc *Service
}

func NewMessagingController(svc *Service) *MessagingController {
	return &MessagingController{svc: svc}
}

// ListConversations godoc
// @Summary List my conversations
// @Description Pinned conversations first, then most recently active, each with its last message, team name and unread count.
// @Tags Messaging
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]ConversationSummary}
// @Security ApiKeyAuth
// @Router /messages/conversations [get]
func (mc *MessagingController) ListConversations(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	list, err := mc.svc.ListConversations(c.Request.Context(), p)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve conversations: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversations retrieved successfully", list)
}

// UnreadCount godoc
// @Summary Count unread messages
// @Tags Messaging
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=map[string]int}
// @Security ApiKeyAuth
// @Router /messages/unread [get]
func (mc *MessagingController) UnreadCount(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	n, err := mc.svc.UnreadTotal(c.Request.Context(), p)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Unread count retrieved successfully", gin.H{"unread": n})
}

// CreateConversation godoc
// @Summary Start a conversation
// @Description Direct conversations take exactly one recipient. Group conversations and team announcements are for coaches and admins; announcements go to every current member of the team.
// @Tags Messaging
// @Accept json
// @Produce json
// @Param conversation body CreateConversationRequest true "Conversation and opening message"
// @Success 201 {object} responses.SuccessResponse{data=Conversation}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 403 {object} responses.ErrorResponse "Not allowed for this role"
// @Failure 500 {object} responses.ErrorResponse "Failing step is named in the step field"
// @Security ApiKeyAuth
// @Router /messages/conversations [post]
func (mc *MessagingController) CreateConversation(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	conv, err := mc.svc.CreateConversation(c.Request.Context(), p, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Conversation created successfully", conv)
}

// GetConversation godoc
// @Summary Open a conversation
// @Description Returns participants and threaded messages, and marks every message in it as read.
// @Tags Messaging
// @Produce json
// @Param conversation_id path uint true "Conversation ID"
// @Success 200 {object} responses.SuccessResponse{data=ConversationDetail}
// @Failure 403 {object} responses.ErrorResponse "Not a participant"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Security ApiKeyAuth
// @Router /messages/conversations/{conversation_id} [get]
func (mc *MessagingController) GetConversation(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "conversation_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	detail, err := mc.svc.GetConversation(c.Request.Context(), p, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversation retrieved successfully", detail)
}

// SendMessage godoc
// @Summary Post a message
// @Tags Messaging
// @Accept json
// @Produce json
// @Param conversation_id path uint true "Conversation ID"
// @Param message body SendMessageRequest true "Message"
// @Success 201 {object} responses.SuccessResponse{data=Message}
// @Failure 403 {object} responses.ErrorResponse "Not a participant or replies disabled"
// @Security ApiKeyAuth
// @Router /messages/conversations/{conversation_id}/messages [post]
func (mc *MessagingController) SendMessage(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "conversation_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	m, err := mc.svc.SendMessage(c.Request.Context(), p, id, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Message sent successfully", m)
}

// MarkRead godoc
// @Summary Mark a conversation read
// @Tags Messaging
// @Produce json
// @Param conversation_id path uint true "Conversation ID"
// @Success 200 {object} responses.SuccessResponse{data=MarkReadResponse}
// @Security ApiKeyAuth
// @Router /messages/conversations/{conversation_id}/read [post]
func (mc *MessagingController) MarkRead(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "conversation_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	n, err := mc.svc.MarkConversationRead(c.Request.Context(), p, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversation marked read", MarkReadResponse{Marked: n})
}

// TogglePin godoc
// @Summary Pin or unpin a conversation
// @Tags Messaging
// @Produce json
// @Param conversation_id path uint true "Conversation ID"
// @Success 200 {object} responses.SuccessResponse{data=PinResponse}
// @Failure 403 {object} responses.ErrorResponse "Coaches and admins only"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Security ApiKeyAuth
// @Router /messages/conversations/{conversation_id}/pin [put]
func (mc *MessagingController) TogglePin(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "conversation_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	pinned, err := mc.svc.TogglePin(c.Request.Context(), p, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Pin updated", PinResponse{IsPinned: pinned})
}

// ListTeamAnnouncements godoc
// @Summary Recent announcements for a team
// @Tags Messaging
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param limit query int false "Maximum announcements" default(5)
// @Success 200 {object} responses.SuccessResponse{data=[]Announcement}
// @Security ApiKeyAuth
// @Router /messages/teams/{team_id}/announcements [get]
func (mc *MessagingController) ListTeamAnnouncements(c *gin.Context) {
	teamID, err := utils.ParamID(c, "team_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 || limit > 50 {
		responses.BadRequest(c, "limit must be between 1 and 50")
		return
	}
	list, err := mc.svc.ListTeamAnnouncements(c.Request.Context(), teamID, limit)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Announcements retrieved successfully", list)
}

// ListRecipients godoc
// @Summary People you can message
// @Tags Messaging
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]user.UserResponse}
// @Security ApiKeyAuth
// @Router /messages/recipients [get]
func (mc *MessagingController) ListRecipients(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	users, err := mc.svc.Recipients(c.Request.Context(), p)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	out := make([]user.UserResponse, len(users))
	for i := range users {
		out[i] = user.FilterUserRecord(&users[i])
	}
	responses.SendSuccess(c, http.StatusOK, "Recipients retrieved successfully", out)
}
