package handlers

import (
	"io"
	"net/http"
	"strings"

	"artnuggets/internal/analyzer"
	"artnuggets/internal/services"
	"artnuggets/internal/services/dto"
	"artnuggets/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService   services.ChatService
	maxUploadSize int64
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService, maxUploadSize int64) *ChatHandler {
	return &ChatHandler{
		BaseHandler:   base,
		chatService:   chatService,
		maxUploadSize: maxUploadSize,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	aiChat := rg.Group("/ai-chat")
	{
		aiChat.POST("/analyze-contract", h.AnalyzeContract)
		aiChat.GET("/chats", h.ListChats)
		aiChat.GET("/chats/:id", h.GetChat)
		aiChat.PATCH("/chats/:id", h.RenameChat)
		aiChat.DELETE("/chats/:id", h.DeleteChat)
	}
}

// AnalyzeContract godoc
// @Summary Анализ контракта: PDF файл и/или текст
// @Description Принимает multipart с полями file, user_text, chat_id, save_to_chat.
// @Tags ai-chat
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "PDF контракт"
// @Param user_text formData string false "Текст или вопрос пользователя"
// @Param chat_id formData string false "Существующий чат для сохранения"
// @Param save_to_chat formData bool false "Создать новый чат"
// @Success 200 {object} dto.AnalyzeContractResponse
// @Router /ai-chat/analyze-contract [post]
func (h *ChatHandler) AnalyzeContract(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	req := &dto.AnalyzeContractRequest{
		UserText:   strings.TrimSpace(c.PostForm("user_text")),
		ChatID:     c.PostForm("chat_id"),
		SaveToChat: c.PostForm("save_to_chat") == "true",
	}

	fileHeader, err := c.FormFile("file")
	if err == nil && fileHeader != nil {
		if fileHeader.Header.Get("Content-Type") != "application/pdf" &&
			!strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
			h.HandleServiceError(c, apperrors.ErrInvalidFileType)
			return
		}
		if fileHeader.Size > h.maxUploadSize {
			h.HandleServiceError(c, apperrors.ErrFileTooLarge)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			h.HandleServiceError(c, apperrors.InternalError(err))
			return
		}
		defer file.Close()

		content, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
		if err != nil {
			h.HandleServiceError(c, apperrors.InternalError(err))
			return
		}
		if int64(len(content)) > h.maxUploadSize {
			h.HandleServiceError(c, apperrors.ErrFileTooLarge)
			return
		}

		text, err := analyzer.ExtractPDFText(content)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		req.ContractText = text
		req.FileName = fileHeader.Filename
	}

	response, err := h.chatService.AnalyzeContract(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListChats godoc
// @Summary Чаты текущего пользователя
// @Tags ai-chat
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ChatBrief
// @Router /ai-chat/chats [get]
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	chats, err := h.chatService.ListChats(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats, "total": len(chats)})
}

// GetChat godoc
// @Summary Чат с полной историей сообщений
// @Tags ai-chat
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID чата"
// @Success 200 {object} dto.ChatDetailResponse
// @Router /ai-chat/chats/{id} [get]
func (h *ChatHandler) GetChat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	detail, err := h.chatService.GetChat(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// RenameChat godoc
// @Summary Переименование чата
// @Tags ai-chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID чата"
// @Param request body dto.RenameChatRequest true "Новое название"
// @Success 200 {object} dto.ChatBrief
// @Router /ai-chat/chats/{id} [patch]
func (h *ChatHandler) RenameChat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RenameChatRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	brief, err := h.chatService.RenameChat(c.Request.Context(), userID, c.Param("id"), req.Title)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, brief)
}

// DeleteChat godoc
// @Summary Удаление чата вместе с сообщениями
// @Tags ai-chat
// @Security BearerAuth
// @Param id path string true "ID чата"
// @Success 204
// @Router /ai-chat/chats/{id} [delete]
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.DeleteChat(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
