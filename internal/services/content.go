package services

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/types"
)

// ContentQuery filters the file listing
type ContentQuery struct {
	types.PaginationParams
	Category string
	Folder   string
	Tags     []string
	IsPublic *bool
	Keyword  string
}

func (q ContentQuery) params() client.Params {
	return pageParams(q.PaginationParams, client.Params{
		"category": optional(q.Category),
		"folder":   optional(q.Folder),
		"tags":     q.Tags,
		"isPublic": q.IsPublic,
		"keyword":  optional(q.Keyword),
	})
}

// ContentSearch is a keyword search over files
type ContentSearch struct {
	Keyword  string
	Category string
	Tags     []string
	FileType string // image, video, document or audio
	Page     int
	Size     int
}

// ContentService wraps /api/contents
type ContentService struct {
	c *client.Client
}

func contentPath(fileName string) string {
	return "/api/contents/" + url.PathEscape(fileName)
}

func (s *ContentService) List(ctx context.Context, q ContentQuery) (*types.Page[types.FileInfo], error) {
	return ref(get[types.Page[types.FileInfo]](ctx, s.c, "/api/contents", q.params()))
}

func (s *ContentService) Search(ctx context.Context, q ContentSearch) (*types.Page[types.FileInfo], error) {
	return ref(get[types.Page[types.FileInfo]](ctx, s.c, "/api/contents/search", client.Params{
		"keyword":  q.Keyword,
		"category": optional(q.Category),
		"tags":     q.Tags,
		"fileType": optional(q.FileType),
		"page":     q.Page,
		"size":     orDefault(q.Size, 10),
	}))
}

func (s *ContentService) Get(ctx context.Context, fileName string) (*types.FileInfo, error) {
	return ref(get[types.FileInfo](ctx, s.c, contentPath(fileName), nil))
}

// Upload sends one file read from r with its metadata fields
func (s *ContentService) Upload(ctx context.Context, fileName string, r io.Reader, meta types.UploadFileRequest) (*types.FileInfo, error) {
	form := client.NewForm().AddFile("file", fileName, r)
	return ref(upload[types.FileInfo](ctx, s.c, "/api/contents/upload", contentForm(form, meta)))
}

// UploadFile sends a file from disk
func (s *ContentService) UploadFile(ctx context.Context, path string, meta types.UploadFileRequest) (*types.FileInfo, error) {
	form := client.NewForm().AddFilePath("file", path)
	return ref(upload[types.FileInfo](ctx, s.c, "/api/contents/upload", contentForm(form, meta)))
}

// UploadFiles sends several files from disk in one request
func (s *ContentService) UploadFiles(ctx context.Context, paths []string, meta types.UploadFileRequest) ([]types.FileInfo, error) {
	form := client.NewForm()
	for _, path := range paths {
		form.AddFilePath("files", path)
	}
	return upload[[]types.FileInfo](ctx, s.c, "/api/contents/upload/batch", contentForm(form, meta))
}

func contentForm(form *client.Form, meta types.UploadFileRequest) *client.Form {
	return form.
		AddField("category", meta.Category).
		AddField("description", meta.Description).
		AddField("folder", meta.Folder).
		AddField("isPublic", strconv.FormatBool(meta.IsPublic)).
		AddField("tags", meta.Tags)
}

// Update changes the metadata of a file
func (s *ContentService) Update(ctx context.Context, fileName string, req types.UpdateFileRequest) (*types.FileInfo, error) {
	return ref(put[types.FileInfo](ctx, s.c, contentPath(fileName)+"/info", req))
}

// Move relocates a file to another folder
func (s *ContentService) Move(ctx context.Context, fileName, folder string) (*types.FileInfo, error) {
	return ref(call[types.FileInfo](ctx, s.c, client.Request{
		Method:   http.MethodPatch,
		Endpoint: contentPath(fileName) + "/move",
		Body:     map[string]string{"newFolder": folder},
	}))
}

func (s *ContentService) Delete(ctx context.Context, fileName string) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodDelete, Endpoint: contentPath(fileName)})
}

// BatchDelete removes several files; the names travel as the JSON body of the DELETE
func (s *ContentService) BatchDelete(ctx context.Context, fileNames []string) error {
	return exec(ctx, s.c, client.Request{
		Method:   http.MethodDelete,
		Endpoint: "/api/contents/batch",
		Body:     map[string][]string{"fileNames": fileNames},
	})
}

func (s *ContentService) Exists(ctx context.Context, fileName string) (bool, error) {
	res, err := get[types.Exists](ctx, s.c, "/api/contents/exists/"+url.PathEscape(fileName), nil)
	return res.Exists, err
}

// SignedURL returns a download link valid for expiresIn seconds (3600 when unset)
func (s *ContentService) SignedURL(ctx context.Context, fileName string, expiresIn int) (*types.SignedURL, error) {
	return ref(get[types.SignedURL](ctx, s.c, "/api/contents/signed-url/"+url.PathEscape(fileName), client.Params{
		"expiredInSeconds": orDefault(expiresIn, 3600),
	}))
}

func (s *ContentService) Categories(ctx context.Context) ([]string, error) {
	return get[[]string](ctx, s.c, "/api/contents/categories", nil)
}

func (s *ContentService) Folders(ctx context.Context) ([]string, error) {
	return get[[]string](ctx, s.c, "/api/contents/folders", nil)
}

func (s *ContentService) Stats(ctx context.Context) (*types.ContentStats, error) {
	return ref(get[types.ContentStats](ctx, s.c, "/api/contents/stats", nil))
}
