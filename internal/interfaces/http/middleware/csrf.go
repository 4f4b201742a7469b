package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/savedeities/contribute/internal/shared/utils"
)

// OriginGuard rejects state-changing requests sent by pages outside
// allowedOrigins. Browsers attach Origin to cross-site POSTs, including
// navigator.sendBeacon, which cannot carry a double-submit header. Requests
// with neither Origin nor Referer come from non-browser clients and carry no
// ambient session, so they pass.
func OriginGuard(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" || origin == "null" {
			origin = refererOrigin(c.GetHeader("Referer"))
		}
		if origin == "" {
			c.Next()
			return
		}

		if origin == requestOrigin(c.Request) {
			c.Next()
			return
		}
		if _, ok := allowed[origin]; !ok {
			utils.ErrorResponse(c, http.StatusForbidden, "request origin not allowed")
			c.Abort()
			return
		}

		c.Next()
	}
}

func refererOrigin(referer string) string {
	if referer == "" {
		return ""
	}
	u, err := url.Parse(referer)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// isSafeMethod returns true for HTTP methods that do not mutate state.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
