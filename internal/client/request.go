package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"
)

// Params is a flat query map. Nil values are dropped and slices repeat the key.
type Params map[string]any

// Request is the per-call configuration
type Request struct {
	Method   string
	Endpoint string
	Query    Params
	Body     any // JSON-encoded unless it is an io.Reader or []byte
	Form     *Form
	Headers  map[string]string
	Timeout  time.Duration // zero uses the client default
}

// Encode renders the params as a query string with keys in sorted order
func (p Params) Encode() string {
	values := url.Values{}
	for key, raw := range p {
		appendQueryValue(values, key, raw)
	}
	return values.Encode()
}

func appendQueryValue(values url.Values, key string, raw any) {
	if raw == nil {
		return
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return
		}
		appendQueryValue(values, key, rv.Elem().Interface())
		return
	case reflect.Slice:
		if rv.IsNil() {
			return
		}
		fallthrough
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			appendQueryValue(values, key, rv.Index(i).Interface())
		}
		return
	}

	switch v := raw.(type) {
	case time.Time:
		values.Add(key, v.Format(time.RFC3339))
	default:
		values.Add(key, fmt.Sprint(v))
	}
}

// joinURL concatenates base and endpoint literally and appends the query
func joinURL(base, endpoint string, query Params) string {
	full := strings.TrimSuffix(base, "/") + endpoint
	if qs := query.Encode(); qs != "" {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		full += sep + qs
	}
	return full
}

// encodeBody turns the request body into a reader and its size
func (r Request) encodeBody() (io.Reader, int64, error) {
	switch body := r.Body.(type) {
	case nil:
		return nil, 0, nil
	case io.Reader:
		return body, -1, nil
	case []byte:
		return bytes.NewReader(body), int64(len(body)), nil
	case string:
		return strings.NewReader(body), int64(len(body)), nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		return bytes.NewReader(data), int64(len(data)), nil
	}
}

var (
	numericSegment = regexp.MustCompile(`^\d+$`)
	uuidSegment    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// NormalizeEndpoint strips the query and replaces numeric and uuid path segments with {id}
func NormalizeEndpoint(endpoint string) string {
	if idx := strings.IndexAny(endpoint, "?#"); idx >= 0 {
		endpoint = endpoint[:idx]
	}
	segments := strings.Split(endpoint, "/")
	for i, seg := range segments {
		if numericSegment.MatchString(seg) || uuidSegment.MatchString(seg) {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}
