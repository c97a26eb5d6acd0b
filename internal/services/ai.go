package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/types"
)

// ChatMode selects the assistant endpoint
type ChatMode string

const (
	ChatGeneral      ChatMode = "general"
	ChatConversation ChatMode = "conversation"
	ChatKnowledge    ChatMode = "knowledge"
	ChatMemory       ChatMode = "memory"
)

// ParseChatMode validates a mode name; empty means general
func ParseChatMode(raw string) (ChatMode, error) {
	switch mode := ChatMode(raw); mode {
	case "", ChatGeneral:
		return ChatGeneral, nil
	case ChatConversation, ChatKnowledge, ChatMemory:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown chat mode %q (general, conversation, knowledge, memory)", raw)
	}
}

func (m ChatMode) endpoint() string {
	if m == "" || m == ChatGeneral {
		return "/api/ai/chat"
	}
	return "/api/ai/chat/" + string(m)
}

// AIService wraps /api/ai
type AIService struct {
	c *client.Client
}

func chatSessionPath(id string) string {
	return "/api/ai/chat/sessions/" + id
}

// Chat sends one message in the given mode
func (s *AIService) Chat(ctx context.Context, mode ChatMode, req types.ChatRequest) (*types.ChatResponse, error) {
	return ref(post[types.ChatResponse](ctx, s.c, mode.endpoint(), req))
}

func (s *AIService) Sessions(ctx context.Context, q types.SearchParams) (*types.Page[types.ChatSession], error) {
	return ref(get[types.Page[types.ChatSession]](ctx, s.c, "/api/ai/chat/sessions", client.Params(q.Params())))
}

func (s *AIService) Session(ctx context.Context, id string) (*types.ChatSession, error) {
	return ref(get[types.ChatSession](ctx, s.c, chatSessionPath(id), nil))
}

func (s *AIService) Messages(ctx context.Context, id string, p types.PaginationParams) (*types.Page[types.ChatMessage], error) {
	return ref(get[types.Page[types.ChatMessage]](ctx, s.c, chatSessionPath(id)+"/messages", client.Params(p.Params())))
}

func (s *AIService) DeleteSession(ctx context.Context, id string) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodDelete, Endpoint: chatSessionPath(id)})
}

func (s *AIService) Stats(ctx context.Context) (*types.AIStats, error) {
	return ref(get[types.AIStats](ctx, s.c, "/api/ai/chat/stats", nil))
}

// KnowledgeService wraps /api/knowledge/documents
type KnowledgeService struct {
	c *client.Client
}

func documentPath(id types.ID) string {
	return "/api/knowledge/documents/" + id.String()
}

func (s *KnowledgeService) List(ctx context.Context, q types.SearchParams) (*types.Page[types.KnowledgeDocument], error) {
	return ref(get[types.Page[types.KnowledgeDocument]](ctx, s.c, "/api/knowledge/documents", client.Params(q.Params())))
}

func (s *KnowledgeService) Get(ctx context.Context, id types.ID) (*types.KnowledgeDocument, error) {
	return ref(get[types.KnowledgeDocument](ctx, s.c, documentPath(id), nil))
}

// Upload sends a document read from r with its metadata fields
func (s *KnowledgeService) Upload(ctx context.Context, fileName string, r io.Reader, meta types.UploadDocumentRequest) (*types.KnowledgeDocument, error) {
	form := client.NewForm().
		AddFile("file", fileName, r).
		AddField("title", meta.Title).
		AddField("category", meta.Category).
		AddField("keywords", meta.Keywords).
		AddField("isPublic", strconv.FormatBool(meta.IsPublic))
	return ref(upload[types.KnowledgeDocument](ctx, s.c, "/api/knowledge/documents/upload", form))
}

func (s *KnowledgeService) Delete(ctx context.Context, id types.ID) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodDelete, Endpoint: documentPath(id)})
}

// BatchDelete removes several documents; the ids travel as the JSON body of the DELETE
func (s *KnowledgeService) BatchDelete(ctx context.Context, ids []types.ID) error {
	return exec(ctx, s.c, client.Request{
		Method:   http.MethodDelete,
		Endpoint: "/api/knowledge/documents/batch",
		Body:     map[string][]types.ID{"ids": ids},
	})
}

// Search returns scored hits, 20 unless limit is set
func (s *KnowledgeService) Search(ctx context.Context, keyword string, limit int) ([]types.DocumentSearchResult, error) {
	return get[[]types.DocumentSearchResult](ctx, s.c, "/api/knowledge/documents/search", client.Params{
		"keyword": keyword,
		"limit":   orDefault(limit, 20),
	})
}

// Similar returns documents close to id, 10 unless limit is set
func (s *KnowledgeService) Similar(ctx context.Context, id types.ID, limit int) ([]types.DocumentSearchResult, error) {
	return get[[]types.DocumentSearchResult](ctx, s.c, documentPath(id)+"/similar", client.Params{
		"limit": orDefault(limit, 10),
	})
}

func (s *KnowledgeService) Categories(ctx context.Context) ([]string, error) {
	return get[[]string](ctx, s.c, "/api/knowledge/documents/categories", nil)
}
