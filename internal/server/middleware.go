// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"fmt"

	"codeberg.org/oliverandrich/go-accounts/internal/config"
	"codeberg.org/oliverandrich/go-accounts/internal/middleware"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func setupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Pre(middleware.StripTrailingSlash())

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit(bodyLimit(cfg.Server.MaxBodySize)))
	e.Use(middleware.Locale())
}

// bodyLimit formats a size in megabytes for echo's BodyLimit middleware.
func bodyLimit(megabytes int) string {
	if megabytes <= 0 {
		megabytes = 1
	}
	return fmt.Sprintf("%dM", megabytes)
}
