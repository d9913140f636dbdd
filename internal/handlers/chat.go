package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/strideworks/stride-backend/internal/logger"
  "github.com/strideworks/stride-backend/internal/services"
  "github.com/strideworks/stride-backend/internal/stream"
)

type ChatHandler struct {
  log                *logger.Logger
  chatStreamService  services.ChatStreamService
  chatMessageService services.ChatMessageService
}

func NewChatHandler(log *logger.Logger, chatStreamService services.ChatStreamService, chatMessageService services.ChatMessageService) *ChatHandler {
  return &ChatHandler{
    log:                log.With("handler", "ChatHandler"),
    chatStreamService:  chatStreamService,
    chatMessageService: chatMessageService,
  }
}

// Stream accepts one chat turn and streams the reply. Validation and
// authorization failures are plain JSON responses; once Begin succeeds the
// response becomes a persistent event stream.
func (h *ChatHandler) Stream(c *gin.Context) {
  var req services.StreamRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "parentId, parentType and content are required"})
    return
  }

  begin, err := h.chatStreamService.Begin(c.Request.Context(), req)
  if err != nil {
    respondErr(c, err)
    return
  }

  writer, err := stream.NewWriter(c.Writer, h.log)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
    return
  }
  writer.WriteHeaders()

  h.chatStreamService.Relay(c.Request.Context(), begin, writer)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
  parentID := c.Query("parentId")
  parentType := c.Query("parentType")
  if parentID == "" || parentType == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "parentId and parentType are required"})
    return
  }
  messages, err := h.chatMessageService.List(c.Request.Context(), parentID, parentType)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) MarkSaved(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
    return
  }
  message, err := h.chatMessageService.MarkSaved(c.Request.Context(), id)
  if err != nil {
    respondErr(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": message})
}
