package xhttp

import (
	"net/url"
	"strconv"

	"github.com/valyala/fasthttp"
)

type RequestCtx = fasthttp.RequestCtx

// FormValues copies the urlencoded body of a POST into url.Values so form
// binding stays independent of fasthttp.
func FormValues(ctx *RequestCtx) url.Values {
	values := url.Values{}
	ctx.PostArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}

func Query(ctx *RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

// PathInt64 reads a named route parameter as an int64.
func PathInt64(ctx *RequestCtx, name string) (int64, bool) {
	raw, ok := ctx.UserValue(name).(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Redirect answers 302 with a Location taken verbatim, so relative paths are
// kept relative.
func Redirect(ctx *RequestCtx, location string) {
	ctx.Response.Header.Set("Location", location)
	ctx.SetStatusCode(StatusFound)
}

func IsPost(ctx *RequestCtx) bool {
	return ctx.IsPost()
}
