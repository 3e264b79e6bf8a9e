package xhttp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func newCtx(method, uri string) *RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	return ctx
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(ctx *RequestCtx) {
		panic("boom")
	})
	ctx := newCtx("GET", "/x")
	h(ctx)

	assert.Equal(t, StatusInternalServerError, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"reason":"server_error"`)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(func(ctx *RequestCtx) {
		seen = requestID(ctx)
	})

	t.Run("generated", func(t *testing.T) {
		ctx := newCtx("GET", "/x")
		h(ctx)
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, string(ctx.Response.Header.Peek(HeaderRequestID)))
	})

	t.Run("propagated", func(t *testing.T) {
		ctx := newCtx("GET", "/x")
		ctx.Request.Header.Set(HeaderRequestID, "abc")
		h(ctx)
		assert.Equal(t, "abc", seen)
		assert.Equal(t, "abc", string(ctx.Response.Header.Peek(HeaderRequestID)))
	})
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	h := CORSMiddleware([]string{"https://admin.example.com"})(func(ctx *RequestCtx) {
		called = true
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		called = false
		ctx := newCtx("OPTIONS", "/api/admin/points")
		ctx.Request.Header.Set("Origin", "https://admin.example.com")
		h(ctx)
		assert.False(t, called)
		assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
		assert.Equal(t, "https://admin.example.com", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	})

	t.Run("foreign origin gets no allow header", func(t *testing.T) {
		called = false
		ctx := newCtx("GET", "/api/admin/points")
		ctx.Request.Header.Set("Origin", "https://evil.example.com")
		h(ctx)
		assert.True(t, called)
		assert.Empty(t, ctx.Response.Header.Peek("Access-Control-Allow-Origin"))
	})
}

func TestOriginAllowed(t *testing.T) {
	assert.True(t, originAllowed(nil, "https://a"))
	assert.True(t, originAllowed([]string{"*"}, "https://a"))
	assert.True(t, originAllowed([]string{"HTTPS://A"}, "https://a"))
	assert.False(t, originAllowed([]string{"https://b"}, "https://a"))
}

func TestDefaultRouterNotFound(t *testing.T) {
	r := CreateDefaultRouter()
	ctx := newCtx("GET", "/nope")
	r.Handler(ctx)
	assert.Equal(t, StatusNotFound, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"ok":false`)
}

func TestEngineMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) MiddlewareFunc {
		return func(next RequestHandler) RequestHandler {
			return func(ctx *RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}

	e := CreateServer()
	e.GET("/ping", func(ctx *RequestCtx) { order = append(order, "handler") })
	e.Use(mark("first"))
	e.Use(mark("second"))
	e.DoRouting()

	e.RootHandler()(newCtx("GET", "/ping"))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestCompressMiddleware(t *testing.T) {
	payload := `{"ok":true,"rows":[` + strings.Repeat(`{"name":"brand","slug":"brand"},`, 64) + `{}]}`
	h := CompressMiddleware(6)(func(ctx *RequestCtx) {
		ctx.Response.Header.SetContentType("application/json; charset=utf-8")
		ctx.Response.SetBodyString(payload)
	})

	t.Run("brotli when accepted", func(t *testing.T) {
		ctx := newCtx("GET", "/api/brands")
		ctx.Request.Header.Set("Accept-Encoding", "br")
		h(ctx)
		assert.Equal(t, "br", string(ctx.Response.Header.ContentEncoding()))
		assert.Less(t, len(ctx.Response.Body()), len(payload))
	})

	t.Run("plain otherwise", func(t *testing.T) {
		ctx := newCtx("GET", "/api/brands")
		h(ctx)
		assert.Empty(t, ctx.Response.Header.ContentEncoding())
		assert.Equal(t, payload, string(ctx.Response.Body()))
	})
}
