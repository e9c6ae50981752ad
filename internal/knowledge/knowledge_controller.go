package knowledge

import (
	"net/http"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/pkg/responses"
	"github.com/DhavalSuthar-24/dugout/pkg/utils"
	"github.com/DhavalSuthar-24/dugout/pkg/validator"
	"github.com/gin-gonic/gin"
)

type KnowledgeController struct {
	svc *Service
}

func NewKnowledgeController(svc *Service) *KnowledgeController {
	return &KnowledgeController{svc: svc}
}

// ListCategories godoc
// @Summary List article categories
// @Tags Knowledge
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Category}
// @Security ApiKeyAuth
// @Router /knowledge/categories [get]
func (kc *KnowledgeController) ListCategories(c *gin.Context) {
	cats, err := kc.svc.ListCategories(c.Request.Context())
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve categories: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Categories retrieved successfully", cats)
}

// CreateCategory godoc
// @Summary Create an article category
// @Tags Knowledge
// @Accept json
// @Produce json
// @Param category body CreateCategoryRequest true "Category"
// @Success 201 {object} responses.SuccessResponse{data=Category}
// @Security ApiKeyAuth
// @Router /knowledge/categories [post]
func (kc *KnowledgeController) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	cat, err := kc.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Category created successfully", cat)
}

// ListArticles godoc
// @Summary List articles
// @Description Published articles, newest first. Search matches title, summary and tags.
// @Tags Knowledge
// @Produce json
// @Param category_id query uint false "Category ID"
// @Param q query string false "Search text"
// @Param drafts query bool false "Include drafts (staff only)"
// @Success 200 {object} responses.SuccessResponse{data=[]Article}
// @Security ApiKeyAuth
// @Router /knowledge/articles [get]
func (kc *KnowledgeController) ListArticles(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	categoryID, err := utils.QueryID(c, "category_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	articles, err := kc.svc.ListArticles(c.Request.Context(), p, ArticleFilter{
		CategoryID:    categoryID,
		Search:        c.Query("q"),
		IncludeDrafts: c.Query("drafts") == "true",
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve articles: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Articles retrieved successfully", articles)
}

// OpenArticle godoc
// @Summary Open an article
// @Description Returns the article and counts one view.
// @Tags Knowledge
// @Produce json
// @Param article_id path uint true "Article ID"
// @Success 200 {object} responses.SuccessResponse{data=Article}
// @Failure 404 {object} responses.ErrorResponse "Article not found"
// @Security ApiKeyAuth
// @Router /knowledge/articles/{article_id} [get]
func (kc *KnowledgeController) OpenArticle(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "article_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	a, err := kc.svc.OpenArticle(c.Request.Context(), p, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Article retrieved successfully", a)
}

// CreateArticle godoc
// @Summary Write an article
// @Tags Knowledge
// @Accept json
// @Produce json
// @Param article body ArticleRequest true "Article"
// @Success 201 {object} responses.SuccessResponse{data=Article}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Security ApiKeyAuth
// @Router /knowledge/articles [post]
func (kc *KnowledgeController) CreateArticle(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	a, err := kc.svc.CreateArticle(c.Request.Context(), p, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Article created successfully", a)
}

// UpdateArticle godoc
// @Summary Edit an article
// @Tags Knowledge
// @Accept json
// @Produce json
// @Param article_id path uint true "Article ID"
// @Param article body ArticleRequest true "Article"
// @Success 200 {object} responses.SuccessResponse{data=Article}
// @Failure 404 {object} responses.ErrorResponse "Article not found"
// @Security ApiKeyAuth
// @Router /knowledge/articles/{article_id} [put]
func (kc *KnowledgeController) UpdateArticle(c *gin.Context) {
	id, err := utils.ParamID(c, "article_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	a, err := kc.svc.UpdateArticle(c.Request.Context(), id, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Article updated successfully", a)
}

// DeleteArticle godoc
// @Summary Delete an article
// @Tags Knowledge
// @Param article_id path uint true "Article ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Article not found"
// @Security ApiKeyAuth
// @Router /knowledge/articles/{article_id} [delete]
func (kc *KnowledgeController) DeleteArticle(c *gin.Context) {
	id, err := utils.ParamID(c, "article_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := kc.svc.DeleteArticle(c.Request.Context(), id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Article deleted successfully", nil)
}

// ListAIConversations godoc
// @Summary My assistant conversations
// @Tags Assistant
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]AIConversation}
// @Security ApiKeyAuth
// @Router /assistant/conversations [get]
func (kc *KnowledgeController) ListAIConversations(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	convs, err := kc.svc.ListAIConversations(c.Request.Context(), p)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Conversations retrieved successfully", convs)
}

// CreateAIConversation godoc
// @Summary Start an empty assistant conversation
// @Tags Assistant
// @Produce json
// @Success 201 {object} responses.SuccessResponse{data=AIConversation}
// @Security ApiKeyAuth
// @Router /assistant/conversations [post]
func (kc *KnowledgeController) CreateAIConversation(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	conv, err := kc.svc.CreateAIConversation(c.Request.Context(), p)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Conversation created successfully", conv)
}

// ListAIMessages godoc
// @Summary Messages of an assistant conversation
// @Tags Assistant
// @Produce json
// @Param conversation_id path uint true "Conversation ID"
// @Success 200 {object} responses.SuccessResponse{data=[]AIMessage}
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Security ApiKeyAuth
// @Router /assistant/conversations/{conversation_id}/messages [get]
func (kc *KnowledgeController) ListAIMessages(c *gin.Context) {
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
	msgs, err := kc.svc.ListAIMessages(c.Request.Context(), p, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Messages retrieved successfully", msgs)
}

// Ask godoc
// @Summary Ask the assistant
// @Description Starts a conversation when conversation_id is omitted. If the assistant fails the question is kept and the response names the "assistant reply" step.
// @Tags Assistant
// @Accept json
// @Produce json
// @Param question body AskRequest true "Question"
// @Success 200 {object} responses.SuccessResponse{data=AskResult}
// @Failure 502 {object} responses.ErrorResponse "Assistant unavailable"
// @Security ApiKeyAuth
// @Router /assistant/ask [post]
func (kc *KnowledgeController) Ask(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	res, err := kc.svc.Ask(c.Request.Context(), p, req.ConversationID, req.Message)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Assistant replied", res)
}
