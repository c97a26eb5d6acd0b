package services

import (
	"context"
	"net/http"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/types"
)

// QuestionnaireQuery filters the questionnaire listing
type QuestionnaireQuery struct {
	types.PaginationParams
	Status  string // DRAFT, PUBLISHED or CLOSED
	Type    string
	Keyword string
}

func (q QuestionnaireQuery) params() client.Params {
	return pageParams(q.PaginationParams, client.Params{
		"status":  optional(q.Status),
		"type":    optional(q.Type),
		"keyword": optional(q.Keyword),
	})
}

// QuestionnaireService wraps /api/questionnaires and the public submission endpoints
type QuestionnaireService struct {
	c *client.Client
}

func questionnairePath(id types.ID) string {
	return "/api/questionnaires/" + id.String()
}

func publicQuestionnairePath(id types.ID) string {
	return "/api/public/questionnaires/" + id.String()
}

func (s *QuestionnaireService) List(ctx context.Context, q QuestionnaireQuery) (*types.Page[types.Questionnaire], error) {
	return ref(get[types.Page[types.Questionnaire]](ctx, s.c, "/api/questionnaires", q.params()))
}

// Mine lists questionnaires created by the current user
func (s *QuestionnaireService) Mine(ctx context.Context, p types.PaginationParams) (*types.Page[types.Questionnaire], error) {
	return ref(get[types.Page[types.Questionnaire]](ctx, s.c, "/api/questionnaires/my", client.Params(p.Params())))
}

// Available lists questionnaires the current user may answer
func (s *QuestionnaireService) Available(ctx context.Context, p types.PaginationParams) (*types.Page[types.Questionnaire], error) {
	return ref(get[types.Page[types.Questionnaire]](ctx, s.c, "/api/questionnaires/available", client.Params(p.Params())))
}

func (s *QuestionnaireService) Get(ctx context.Context, id types.ID) (*types.Questionnaire, error) {
	return ref(get[types.Questionnaire](ctx, s.c, questionnairePath(id), nil))
}

func (s *QuestionnaireService) Create(ctx context.Context, req types.CreateQuestionnaireRequest) (*types.Questionnaire, error) {
	return ref(post[types.Questionnaire](ctx, s.c, "/api/questionnaires", req))
}

func (s *QuestionnaireService) Update(ctx context.Context, id types.ID, req types.CreateQuestionnaireRequest) (*types.Questionnaire, error) {
	return ref(put[types.Questionnaire](ctx, s.c, questionnairePath(id), req))
}

func (s *QuestionnaireService) Delete(ctx context.Context, id types.ID) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodDelete, Endpoint: questionnairePath(id)})
}

// BatchDelete removes several questionnaires; the ids travel as the JSON body of the DELETE
func (s *QuestionnaireService) BatchDelete(ctx context.Context, ids []types.ID) error {
	return exec(ctx, s.c, client.Request{
		Method:   http.MethodDelete,
		Endpoint: "/api/questionnaires/batch",
		Body:     map[string][]types.ID{"ids": ids},
	})
}

// Publish moves a draft to PUBLISHED
func (s *QuestionnaireService) Publish(ctx context.Context, id types.ID) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodPost, Endpoint: questionnairePath(id) + "/publish"})
}

// Close stops accepting responses
func (s *QuestionnaireService) Close(ctx context.Context, id types.ID) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodPost, Endpoint: questionnairePath(id) + "/close"})
}

// Copy duplicates a questionnaire, optionally under a new title
func (s *QuestionnaireService) Copy(ctx context.Context, id types.ID, title string) (*types.Questionnaire, error) {
	body := map[string]string{}
	if title != "" {
		body["title"] = title
	}
	return ref(post[types.Questionnaire](ctx, s.c, questionnairePath(id)+"/copy", body))
}

// ValidateAccess checks the access password of a protected questionnaire
func (s *QuestionnaireService) ValidateAccess(ctx context.Context, id types.ID, password string) (*types.AccessCheck, error) {
	return ref(post[types.AccessCheck](ctx, s.c, questionnairePath(id)+"/validate-access", map[string]string{
		"password": password,
	}))
}

func (s *QuestionnaireService) Stats(ctx context.Context, id types.ID) (*types.QuestionnaireStats, error) {
	return ref(get[types.QuestionnaireStats](ctx, s.c, questionnairePath(id)+"/stats", nil))
}

// PublicList lists questionnaires open to anonymous respondents
func (s *QuestionnaireService) PublicList(ctx context.Context, p types.PaginationParams) (*types.Page[types.Questionnaire], error) {
	return ref(get[types.Page[types.Questionnaire]](ctx, s.c, "/api/public/questionnaires", client.Params(p.Params())))
}

// Public returns a questionnaire as respondents see it
func (s *QuestionnaireService) Public(ctx context.Context, id types.ID) (*types.Questionnaire, error) {
	return ref(get[types.Questionnaire](ctx, s.c, publicQuestionnairePath(id), nil))
}

// Submit sends the answers of one respondent, keyed by question id
func (s *QuestionnaireService) Submit(ctx context.Context, id types.ID, answers map[string]any) (*types.SubmitResult, error) {
	return ref(post[types.SubmitResult](ctx, s.c, publicQuestionnairePath(id)+"/submit", map[string]any{
		"answers": answers,
	}))
}
