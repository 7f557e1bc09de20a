package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
)

var (
	errMissing  = errors.New("is required")
	errBadBody  = errors.New("request body is not a JSON object")
	maxBodySize = int64(1 << 20)
)

// Identity is the caller resolved from a verified token
type Identity struct {
	UserID   int64
	Username string
}

// Request holds the converted parameters and the optional identity
type Request struct {
	values   map[string]any
	Identity *Identity
}

// NewRequest builds a Request directly, mostly for handler tests
func NewRequest(values map[string]any, identity *Identity) *Request {
	if values == nil {
		values = map[string]any{}
	}
	return &Request{values: values, Identity: identity}
}

func (r *Request) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

func (r *Request) Int(name string) int64 {
	v, _ := r.values[name].(int64)
	return v
}

func (r *Request) String(name string) string {
	v, _ := r.values[name].(string)
	return v
}

func (r *Request) Bool(name string) bool {
	v, _ := r.values[name].(bool)
	return v
}

func (r *Request) IntList(name string) []int64 {
	v, _ := r.values[name].([]int64)
	return v
}

// UserID returns 0 for anonymous callers
func (r *Request) UserID() int64 {
	if r.Identity == nil {
		return 0
	}
	return r.Identity.UserID
}

// rawValue is either query/form text or a JSON fragment from the body
type rawValue struct {
	text   string
	json   json.RawMessage
	isJSON bool
}

// source looks raw values up by name
type source struct {
	query valueGetter
	body  map[string]json.RawMessage
	form  valueGetter
}

type valueGetter interface {
	GetQuery(key string) (string, bool)
}

type formValues struct{ c *gin.Context }

func (f formValues) GetQuery(key string) (string, bool) { return f.c.GetPostForm(key) }

// readSource collects the values of a request: the query string for GET,
// a JSON object body for POST with form values as fallback
func readSource(c *gin.Context) (*source, error) {
	src := &source{query: c}
	if c.Request.Method != http.MethodPost {
		return src, nil
	}

	ct, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		src.form = formValues{c: c}
		return src, nil
	}

	if c.Request.Body == nil {
		return src, nil
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
	if err != nil {
		return src, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return src, nil
	}

	body := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return src, errBadBody
	}
	src.body = body
	return src, nil
}

func (s *source) lookup(name string) (rawValue, bool) {
	if s.body != nil {
		if raw, ok := s.body[name]; ok && !isNull(raw) {
			return rawValue{json: raw, isJSON: true}, true
		}
	}
	if s.form != nil {
		if v, ok := s.form.GetQuery(name); ok {
			return rawValue{text: v}, true
		}
	}
	// POST bodies never fall back to the query string except for the token
	if (s.body == nil && s.form == nil) || name == tokenParam {
		if v, ok := s.query.GetQuery(name); ok {
			return rawValue{text: v}, true
		}
	}
	return rawValue{}, false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// bind converts every declared parameter
func bind(params []Param, src *source) (map[string]any, error) {
	values := make(map[string]any, len(params))
	for _, p := range params {
		rv, ok := src.lookup(p.Name)
		if !ok {
			if p.Optional {
				continue
			}
			return nil, fmt.Errorf("%s %w", p.Name, errMissing)
		}

		v, err := convert(p.Type, rv)
		if err != nil {
			return nil, fmt.Errorf("%s must be %s: %w", p.Name, describe(p.Type), err)
		}
		values[p.Name] = v
	}
	return values, nil
}

func describe(t ParamType) string {
	switch t {
	case TypeInteger:
		return "an integer"
	case TypeBoolean:
		return "a boolean"
	case TypeIntegerList:
		return "a list of integers"
	default:
		return "a string"
	}
}

func convert(t ParamType, rv rawValue) (any, error) {
	if !rv.isJSON {
		return convertText(t, rv.text)
	}

	dec := json.NewDecoder(bytes.NewReader(rv.json))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	switch x := v.(type) {
	case string:
		// form-style clients send every value as a string, including encoded lists
		return convertText(t, x)
	case json.Number:
		if t == TypeInteger {
			return x.Int64()
		}
	case bool:
		if t == TypeBoolean {
			return x, nil
		}
	case []any:
		if t == TypeIntegerList {
			return toIntList(x)
		}
	}
	return nil, fmt.Errorf("unexpected JSON value %s", string(rv.json))
}

func convertText(t ParamType, s string) (any, error) {
	switch t {
	case TypeString:
		return s, nil
	case TypeInteger:
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	case TypeBoolean:
		return strconv.ParseBool(strings.TrimSpace(s))
	case TypeIntegerList:
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "[") {
			var ids []int64
			if err := json.Unmarshal([]byte(s), &ids); err != nil {
				return nil, err
			}
			return ids, nil
		}
		if s == "" {
			return []int64{}, nil
		}
		parts := strings.Split(s, ",")
		ids := make([]int64, 0, len(parts))
		for _, part := range parts {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	return nil, fmt.Errorf("unknown parameter type %q", t)
}

func toIntList(items []any) ([]int64, error) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		n, ok := item.(json.Number)
		if !ok {
			return nil, fmt.Errorf("non-numeric element %v", item)
		}
		id, err := n.Int64()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
