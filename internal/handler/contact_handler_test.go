package handler

import (
	"net/http"
	"testing"
)

func TestCreateContactMessageValidation(t *testing.T) {
	api, engine := setupHandlerTest(t)
	engine.POST("/api/contact/messages", api.CreateContactMessage)

	w := doJSON(t, engine, http.MethodPost, "/api/contact/messages", map[string]any{
		"name":    "Visitor",
		"email":   "not-an-email",
		"message": "hello",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodPost, "/api/contact/messages", map[string]any{
		"name":    "Visitor",
		"email":   "visitor@example.dev",
		"subject": "Hi",
		"message": "hello there",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestContactMessageAdminFlow(t *testing.T) {
	api, engine := setupHandlerTest(t)
	engine.POST("/api/contact/messages", api.CreateContactMessage)
	engine.GET("/api/admin/messages", api.ListContactMessages)
	engine.PUT("/api/admin/messages/:id/read", api.MarkContactMessageRead)
	engine.DELETE("/api/admin/messages/:id", api.DeleteContactMessage)

	if w := doJSON(t, engine, http.MethodPost, "/api/contact/messages", map[string]any{
		"name":    "Visitor",
		"email":   "visitor@example.dev",
		"message": "hello there",
	}); w.Code != http.StatusCreated {
		t.Fatalf("seed message: %d %s", w.Code, w.Body.String())
	}

	w := doJSON(t, engine, http.MethodGet, "/api/admin/messages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list messages: %d %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	messages, ok := body["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("expected one message, got %v", body["messages"])
	}

	if w := doJSON(t, engine, http.MethodPut, "/api/admin/messages/1/read", nil); w.Code != http.StatusOK {
		t.Fatalf("mark read: %d %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, engine, http.MethodDelete, "/api/admin/messages/1", nil); w.Code != http.StatusOK {
		t.Fatalf("delete message: %d %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, engine, http.MethodDelete, "/api/admin/messages/1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing message, got %d", w.Code)
	}
}
