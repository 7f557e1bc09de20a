package utils

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\x`, EscapeLike(`c:\x`))
	assert.Equal(t, `%harry%`, ContainsPattern("harry"))
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		want       int
		ok         bool
	}{
		{"first page", 0, 10, 0, true},
		{"third page", 2, 10, 20, true},
		{"negative", -3, 10, 0, false},
		{"largest fitting page", math.MaxInt / 3, 3, math.MaxInt / 3 * 3, true},
		{"overflow", 1 << 62, 10, 0, false},
		{"overflow just past the edge", math.MaxInt/10 + 1, 10, 0, false},
		{"zero size", 1, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Offset(tt.page, tt.size)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:1234", "198.51.100.4"},
		{"invalid header falls through", map[string]string{"X-Forwarded-For": "nope"}, "192.0.2.1:80", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.9", "192.0.2.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ExtractClientIP(c))
		})
	}
}
