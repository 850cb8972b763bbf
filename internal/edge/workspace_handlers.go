package edge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"artnuggets/internal/edge/apiclient"
	"artnuggets/internal/edge/querycache"
	"artnuggets/internal/edge/workspace"
	"artnuggets/internal/logger"

	"github.com/gin-gonic/gin"
)

func (a *App) handleWorkspaceSnapshot(c *gin.Context) {
	sess := a.currentSession(c)
	c.JSON(http.StatusOK, a.workspaces.Get(sess.ID()).Snapshot())
}

type openTabForm struct {
	ChatID *string `json:"chat_id"`
}

func (a *App) handleOpenTab(c *gin.Context) {
	var form openTabForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess := a.currentSession(c)
	tab := a.chatService(sess).OpenChat(form.ChatID)
	c.JSON(http.StatusOK, gin.H{"tab": tab})
}

func (a *App) handleActivateTab(c *gin.Context) {
	sess := a.currentSession(c)
	a.workspaces.Get(sess.ID()).ActivateTab(c.Param("id"))
	c.JSON(http.StatusOK, a.workspaces.Get(sess.ID()).Snapshot())
}

func (a *App) handleCloseTab(c *gin.Context) {
	sess := a.currentSession(c)
	a.workspaces.Get(sess.ID()).CloseTab(c.Param("id"))
	c.JSON(http.StatusOK, a.workspaces.Get(sess.ID()).Snapshot())
}

func (a *App) handleAnalyze(c *gin.Context) {
	sess := a.currentSession(c)
	tabID := c.Param("id")

	userText := c.PostForm("user_text")
	upload, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := a.chatService(sess)
	if err := svc.Analyze(c.Request.Context(), tabID, upload, userText); err != nil {
		status, handled := analyzeErrorStatus(err)
		if !handled {
			logger.Error("Contract analysis failed", "tab_id", tabID, "error", err)
		}
		// Workspace уже содержит и оптимистичное сообщение пользователя,
		// и синтетический ответ об ошибке, поэтому snapshot отдаем всегда
		c.JSON(status, gin.H{
			"error":     err.Error(),
			"workspace": a.workspaces.Get(sess.ID()).Snapshot(),
		})
		return
	}

	a.cache.Invalidate(c.Request.Context(), querycache.CollectionChats)
	c.JSON(http.StatusOK, gin.H{"workspace": a.workspaces.Get(sess.ID()).Snapshot()})
}

func (a *App) handleChatList(c *gin.Context) {
	sess := a.currentSession(c)
	chatClient := apiclient.NewAIChatClient(a.backendClient(sess))
	trigger := a.workspaces.Get(sess.ID()).RefreshTrigger()

	// RefreshTrigger входит в ключ: его рост делает прежний ключ
	// недостижимым и список перезапрашивается
	params := url.Values{}
	params.Set("sid", sess.ID())
	params.Set("trigger", strconv.FormatUint(trigger, 10))
	key := querycache.Key(querycache.CollectionChats, "/ai-chat/chats", params)

	payload, err := a.cache.Fetch(c.Request.Context(), querycache.CollectionChats, key, func(ctx context.Context) ([]byte, error) {
		chats, err := chatClient.ListChats(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(gin.H{"chats": chats, "total": len(chats)})
	})
	if err != nil {
		a.renderClientError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (a *App) handleDeleteChat(c *gin.Context) {
	sess := a.currentSession(c)
	svc := a.chatService(sess)

	if err := svc.DeleteChat(c.Request.Context(), c.Param("id")); err != nil {
		a.renderClientError(c, err)
		return
	}

	a.cache.Invalidate(c.Request.Context(), querycache.CollectionChats)
	c.JSON(http.StatusOK, gin.H{"workspace": a.workspaces.Get(sess.ID()).Snapshot()})
}

// readUpload читает файл из multipart-формы; отсутствие файла - не ошибка.
func readUpload(c *gin.Context) (*workspace.Upload, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &workspace.Upload{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// analyzeErrorStatus сопоставляет ошибкам Analyze HTTP-статусы;
// второй результат - была ли ошибка ожидаемой (клиентской).
func analyzeErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, workspace.ErrTabNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, workspace.ErrFileTooLarge),
		errors.Is(err, workspace.ErrNotPDF),
		errors.Is(err, workspace.ErrEmptySubmission):
		return http.StatusBadRequest, true
	case errors.Is(err, apiclient.ErrSessionExpired):
		return http.StatusUnauthorized, true
	default:
		return http.StatusBadGateway, false
	}
}

// renderClientError переводит ошибки backend-клиента в ответ шлюза.
func (a *App) renderClientError(c *gin.Context, err error) {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		a.clearAuthCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired", "redirect": loginPath})
		return
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		c.Data(apiErr.StatusCode, "application/json", []byte(apiErr.Body))
		return
	}

	logger.Error("Backend call failed", "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "backend is unavailable"})
}
