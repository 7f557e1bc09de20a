package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// ParamType is the primitive type of a declared parameter
type ParamType string

const (
	TypeInteger     ParamType = "integer"
	TypeString      ParamType = "string"
	TypeBoolean     ParamType = "boolean"
	TypeIntegerList ParamType = "integer-list"
)

type Param struct {
	Name     string
	Type     ParamType
	Desc     string
	Optional bool
}

// AuthMode says whether an endpoint needs a verified identity
type AuthMode int

const (
	AuthNone AuthMode = iota
	// AuthOptional resolves the identity when a valid token is sent, otherwise the caller is anonymous
	AuthOptional
	// AuthRequired answers with the endpoint's AuthCode when the token is missing or invalid
	AuthRequired
)

func (m AuthMode) String() string {
	switch m {
	case AuthOptional:
		return "optional"
	case AuthRequired:
		return "required"
	default:
		return "none"
	}
}

// ErrorTable maps endpoint-local codes to messages. 0 is implied success.
type ErrorTable map[int]string

// HandlerFunc returns the data of a successful envelope or an error.
// Return Fail(code, msg) for a documented code; anything else becomes code 1.
type HandlerFunc func(c *gin.Context, req *Request) (any, error)

// Endpoint declares one operation of the public API
type Endpoint struct {
	Name   string
	Method string
	Path   string
	Params []Param
	// Response is a zero value of the data type, used for the catalog
	Response    any
	Errors      ErrorTable
	Auth        AuthMode
	AuthCode    int
	InvalidCode int
	Handle      HandlerFunc
}

// Error carries an endpoint-local code up to the envelope
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Fail builds a coded error. An empty message uses the endpoint's table text.
func Fail(code int, msg string) error {
	return &Error{Code: code, Message: msg}
}

// validate rejects declarations that could produce undocumented codes
func (e *Endpoint) validate() error {
	switch {
	case e.Name == "":
		return errors.New("endpoint name is required")
	case e.Method != "GET" && e.Method != "POST":
		return fmt.Errorf("endpoint %q: unsupported method %q", e.Name, e.Method)
	case e.Path == "":
		return fmt.Errorf("endpoint %q: path is required", e.Name)
	case e.Handle == nil:
		return fmt.Errorf("endpoint %q: handler is required", e.Name)
	}

	if _, ok := e.Errors[1]; !ok {
		return fmt.Errorf("endpoint %q: code 1 (unknown error) must be declared", e.Name)
	}
	if _, ok := e.Errors[0]; ok {
		return fmt.Errorf("endpoint %q: code 0 is reserved for success", e.Name)
	}

	if e.Auth == AuthRequired {
		if _, ok := e.Errors[e.AuthCode]; !ok || e.AuthCode == 0 {
			return fmt.Errorf("endpoint %q: auth code %d is not in the error table", e.Name, e.AuthCode)
		}
	}

	if len(e.Params) > 0 {
		if _, ok := e.Errors[e.InvalidCode]; !ok || e.InvalidCode == 0 {
			return fmt.Errorf("endpoint %q: invalid-parameter code %d is not in the error table", e.Name, e.InvalidCode)
		}
	}

	seen := make(map[string]struct{}, len(e.Params))
	for _, p := range e.Params {
		if p.Name == "" {
			return fmt.Errorf("endpoint %q: parameter without a name", e.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("endpoint %q: duplicate parameter %q", e.Name, p.Name)
		}
		seen[p.Name] = struct{}{}

		switch p.Type {
		case TypeInteger, TypeString, TypeBoolean, TypeIntegerList:
		default:
			return fmt.Errorf("endpoint %q: parameter %q has unknown type %q", e.Name, p.Name, p.Type)
		}
	}

	return nil
}
