package api

import (
	"reflect"
	"sort"
	"strings"
)

// EndpointDoc is the published description of an endpoint
type EndpointDoc struct {
	Name     string     `json:"name"`
	Method   string     `json:"method"`
	Path     string     `json:"path"`
	Auth     string     `json:"auth"`
	Params   []ParamDoc `json:"params"`
	Errors   []ErrorDoc `json:"errors"`
	Response any        `json:"response"`
}

type ParamDoc struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Desc     string `json:"desc"`
	Optional bool   `json:"optional"`
}

type ErrorDoc struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func document(ep Endpoint, fullPath string) EndpointDoc {
	doc := EndpointDoc{
		Name:     ep.Name,
		Method:   ep.Method,
		Path:     fullPath,
		Auth:     ep.Auth.String(),
		Params:   make([]ParamDoc, 0, len(ep.Params)),
		Errors:   make([]ErrorDoc, 0, len(ep.Errors)),
		Response: shapeOf(reflect.TypeOf(ep.Response), 0),
	}

	for _, p := range ep.Params {
		doc.Params = append(doc.Params, ParamDoc{Name: p.Name, Type: string(p.Type), Desc: p.Desc, Optional: p.Optional})
	}
	for code, msg := range ep.Errors {
		doc.Errors = append(doc.Errors, ErrorDoc{Code: code, Message: msg})
	}
	sort.Slice(doc.Errors, func(i, j int) bool { return doc.Errors[i].Code < doc.Errors[j].Code })

	return doc
}

// shapeOf renders a response type as nested field descriptions.
// Structs become objects keyed by json name, slices become one-element arrays.
func shapeOf(t reflect.Type, depth int) any {
	if t == nil {
		return "null"
	}
	if depth > 8 {
		return t.String()
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner := shapeOf(t.Elem(), depth+1)
		if s, ok := inner.(string); ok {
			return s + "|null"
		}
		return inner
	case reflect.Slice, reflect.Array:
		return []any{shapeOf(t.Elem(), depth+1)}
	case reflect.Map:
		return map[string]any{"<" + t.Key().Kind().String() + ">": shapeOf(t.Elem(), depth+1)}
	case reflect.Struct:
		if t.PkgPath() == "time" && t.Name() == "Time" {
			return "datetime"
		}
		fields := map[string]any{}
		collectFields(t, fields, depth)
		return fields
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}

func collectFields(t reflect.Type, into map[string]any, depth int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, into, depth)
				continue
			}
		}
		if name == "" {
			name = f.Name
		}
		into[name] = shapeOf(f.Type, depth+1)
	}
}
