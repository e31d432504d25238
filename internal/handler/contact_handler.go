package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/foliolog/internal/service"
	"github.com/gin-gonic/gin"
)

type contactMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateContactMessage 接收访客留言。
func (a *API) CreateContactMessage(c *gin.Context) {
	var req contactMessageRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		respondError(c, http.StatusBadRequest, "name, email and message are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondError(c, http.StatusBadRequest, "email is invalid")
		return
	}

	if _, err := a.contact.Create(service.ContactMessageInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Message,
	}); err != nil {
		log.Printf("create contact message: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "message sent"})
}

// ListContactMessages 返回全部留言，最新在前。
func (a *API) ListContactMessages(c *gin.Context) {
	messages, err := a.contact.List()
	if err != nil {
		log.Printf("list contact messages: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to list messages")
		return
	}

	views := make([]gin.H, 0, len(messages))
	for _, msg := range messages {
		views = append(views, gin.H{
			"id":        msg.ID,
			"name":      msg.Name,
			"email":     msg.Email,
			"subject":   msg.Subject,
			"message":   msg.Body,
			"read":      msg.Read,
			"createdAt": msg.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"messages": views})
}

// MarkContactMessageRead 将留言标记为已读。
func (a *API) MarkContactMessageRead(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.contact.MarkRead(id); err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			respondError(c, http.StatusNotFound, "message not found")
			return
		}
		log.Printf("mark message read: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to update message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

// DeleteContactMessage 删除留言。
func (a *API) DeleteContactMessage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.contact.Delete(id); err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			respondError(c, http.StatusNotFound, "message not found")
			return
		}
		log.Printf("delete message: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to delete message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}
