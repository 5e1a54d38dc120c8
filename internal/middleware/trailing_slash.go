// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// StripTrailingSlash rewrites request paths ending in a slash to the
// canonical path without one. Register it with echo.Pre so routing sees the
// rewritten path.
func StripTrailingSlash() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if path != "/" && strings.HasSuffix(path, "/") {
				req.URL.Path = strings.TrimRight(path, "/")
				if req.URL.Path == "" {
					req.URL.Path = "/"
				}
				req.URL.RawPath = ""
				req.RequestURI = req.URL.RequestURI()
			}
			return next(c)
		}
	}
}
