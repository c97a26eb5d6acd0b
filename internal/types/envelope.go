package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Envelope is the wrapper every Sihui endpoint responds with
type Envelope[T any] struct {
	Success bool   `json:"success" yaml:"success"`
	Data    T      `json:"data" yaml:"data"`
	Message string `json:"message" yaml:"message"`
	Code    string `json:"code" yaml:"code"`
	Details any    `json:"details,omitempty" yaml:"details,omitempty"`
}

// Unwrap returns the payload of a successful envelope.
// A failed envelope yields the zero value and an *EnvelopeError, even when data is present.
func (e Envelope[T]) Unwrap() (T, error) {
	if !e.Success {
		var zero T
		return zero, &EnvelopeError{Code: e.Code, Message: e.Message, Details: e.Details}
	}
	return e.Data, nil
}

// EnvelopeError is a business failure reported inside a 2xx envelope
type EnvelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *EnvelopeError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return "request failed: " + e.Code
	default:
		return "request failed"
	}
}

// Page is one page of a paginated listing
type Page[T any] struct {
	Content       []T   `json:"content" yaml:"content"`
	TotalElements int64 `json:"totalElements" yaml:"totalElements"`
	TotalPages    int   `json:"totalPages" yaml:"totalPages"`
	Size          int   `json:"size" yaml:"size"`
	Number        int   `json:"number" yaml:"number"`
	First         bool  `json:"first" yaml:"first"`
	Last          bool  `json:"last" yaml:"last"`
}

// Validate checks the structural invariants the backend promises for a page
func (p Page[T]) Validate() error {
	if len(p.Content) > p.Size {
		return fmt.Errorf("page holds %d items but size is %d", len(p.Content), p.Size)
	}
	if p.First != (p.Number == 0) {
		return fmt.Errorf("page %d has first=%t", p.Number, p.First)
	}
	wantLast := p.TotalPages == 0 || p.Number == p.TotalPages-1
	if p.Last != wantLast {
		return fmt.Errorf("page %d of %d has last=%t", p.Number, p.TotalPages, p.Last)
	}
	return nil
}

// HasNext reports whether another page follows this one
func (p Page[T]) HasNext() bool {
	return !p.Last && p.Number+1 < p.TotalPages
}

// PaginationParams are the paging query parameters shared by list endpoints
type PaginationParams struct {
	Page int      `json:"page"`
	Size int      `json:"size"`
	Sort []string `json:"sort,omitempty"`
}

// Params converts the pagination into a query map.
// Unset sort is left nil so the query encoder drops it.
func (p PaginationParams) Params() map[string]any {
	params := map[string]any{
		"page": p.Page,
		"size": p.Size,
	}
	if len(p.Sort) > 0 {
		params["sort"] = p.Sort
	}
	return params
}

// SearchParams extends pagination with the common search filters
type SearchParams struct {
	PaginationParams
	Keyword   string `json:"keyword,omitempty"`
	Status    string `json:"status,omitempty"`
	Category  string `json:"category,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Params converts the search into a query map, omitting empty filters
func (s SearchParams) Params() map[string]any {
	params := s.PaginationParams.Params()
	for key, value := range map[string]string{
		"keyword":   s.Keyword,
		"status":    s.Status,
		"category":  s.Category,
		"startDate": s.StartDate,
		"endDate":   s.EndDate,
	} {
		if value != "" {
			params[key] = value
		}
	}
	return params
}

// ParseSort splits a comma separated "field,dir;field2" flag value into sort entries
func ParseSort(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var sorts []string
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			sorts = append(sorts, part)
		}
	}
	return sorts
}

// ID is a numeric backend identifier rendered into endpoint paths
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a command line identifier
func ParseID(raw string) (ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	return ID(v), nil
}
