package api

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"booka-backend/internal/shared"
	"booka-backend/internal/shared/response"
	"booka-backend/pkg/jwt"
	"booka-backend/pkg/metrics"
)

const tokenParam = "token"

// TokenVerifier decodes a bearer token into claims
type TokenVerifier interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// Registry mounts declared endpoints on gin and keeps their catalog
type Registry struct {
	tokens  TokenVerifier
	catalog []EndpointDoc
	routes  map[string]struct{}
}

func NewRegistry(tokens TokenVerifier) *Registry {
	return &Registry{
		tokens: tokens,
		routes: make(map[string]struct{}),
	}
}

// Mount validates every endpoint before registering any of them
func (r *Registry) Mount(group *gin.RouterGroup, endpoints ...Endpoint) error {
	for i := range endpoints {
		ep := &endpoints[i]
		if err := ep.validate(); err != nil {
			return err
		}
		key := ep.Method + " " + path.Join(group.BasePath(), ep.Path)
		if _, dup := r.routes[key]; dup {
			return fmt.Errorf("endpoint %q: route %s registered twice", ep.Name, key)
		}
		r.routes[key] = struct{}{}
	}

	for _, ep := range endpoints {
		group.Handle(ep.Method, ep.Path, r.dispatch(ep))
		r.catalog = append(r.catalog, document(ep, path.Join(group.BasePath(), ep.Path)))
	}
	return nil
}

// Catalog lists every mounted endpoint in registration order
func (r *Registry) Catalog() []EndpointDoc {
	out := make([]EndpointDoc, len(r.catalog))
	copy(out, r.catalog)
	return out
}

// DocsHandler serves the catalog inside the usual envelope
func (r *Registry) DocsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, r.Catalog())
	}
}

func (r *Registry) dispatch(ep Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, message, data := r.serve(c, &ep)
		metrics.RecordEnvelope(ep.Name, code)

		if code == response.CodeSuccess {
			response.Success(c, data)
			return
		}
		response.Fail(c, code, message)
	}
}

func (r *Registry) serve(c *gin.Context, ep *Endpoint) (int, string, any) {
	src, srcErr := readSource(c)

	var values map[string]any
	if len(ep.Params) > 0 {
		if srcErr != nil {
			return ep.InvalidCode, invalidMessage(ep, srcErr), nil
		}
		var err error
		if values, err = bind(ep.Params, src); err != nil {
			return ep.InvalidCode, invalidMessage(ep, err), nil
		}
	}

	var identity *Identity
	if ep.Auth != AuthNone {
		identity = r.resolveIdentity(c, src)
		if identity == nil && ep.Auth == AuthRequired {
			return ep.AuthCode, ep.Errors[ep.AuthCode], nil
		}
	}
	if identity != nil {
		c.Set(shared.ContextKeyIdentity, *identity)
	}

	data, err := ep.Handle(c, NewRequest(values, identity))
	if err == nil {
		return response.CodeSuccess, response.MessageSuccess, data
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if text, ok := ep.Errors[apiErr.Code]; ok {
			if apiErr.Message != "" {
				text = apiErr.Message
			}
			return apiErr.Code, text, nil
		}
	}

	log.Error().Err(err).
		Str("endpoint", ep.Name).
		Str("request_id", c.GetString(shared.ContextKeyRequestID)).
		Msg("[API] unexpected handler error")
	return response.CodeUnknown, ep.Errors[response.CodeUnknown], nil
}

// resolveIdentity reads the bearer header, falling back to a token parameter
func (r *Registry) resolveIdentity(c *gin.Context, src *source) *Identity {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" && src != nil {
		if rv, ok := src.lookup(tokenParam); ok {
			if v, err := convert(TypeString, rv); err == nil {
				token, _ = v.(string)
			}
		}
	}
	if token == "" || r.tokens == nil {
		return nil
	}

	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		log.Debug().Err(err).Str("request_id", c.GetString(shared.ContextKeyRequestID)).Msg("[API] token rejected")
		return nil
	}
	return &Identity{UserID: claims.UserID, Username: claims.Username}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func invalidMessage(ep *Endpoint, err error) string {
	return fmt.Sprintf("%s: %v", ep.Errors[ep.InvalidCode], err)
}

// IdentityFrom returns the identity resolved for the current request
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(shared.ContextKeyIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
