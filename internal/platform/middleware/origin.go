// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"slices"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
	"github.com/taibuivan/idolbase/internal/platform/config"
	"github.com/taibuivan/idolbase/internal/platform/constants"
)

// SameOrigin rejects state-changing requests whose Origin, or Referer when
// Origin is absent, is not one of trusted. Requests carrying neither header
// come from non-browser clients and pass.
func SameOrigin(trusted []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if isSafeMethod(request.Method) {
				next.ServeHTTP(writer, request)
				return
			}

			source := request.Header.Get(constants.HeaderOrigin)
			if source == "" {
				source = request.Header.Get(constants.HeaderReferer)
			}
			if source == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if !slices.Contains(trusted, config.NormalizeOrigin(source)) {
				writeError(writer, apperr.BadOrigin())
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
