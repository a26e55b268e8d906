// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// loadError maps a case load failure onto an HTTP error.
func loadError(path string, err error) *echo.HTTPError {
	if errors.Is(err, fs.ErrNotExist) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("case file not found: %s", path)).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to load case %s", path)).SetInternal(err)
}

// errorHandler renders every error as {"detail": "..."}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		detail = fmt.Sprint(he.Message)
		if he.Internal != nil {
			err = he.Internal
		}
	}

	if code >= http.StatusInternalServerError {
		log.WithError(err).Errorf("%s %s: %s", c.Request().Method, c.Request().URL.Path, detail)
	} else {
		log.WithError(err).Debugf("%s %s: %d %s", c.Request().Method, c.Request().URL.Path, code, detail)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, errorResponse{Detail: detail})
	}
	if werr != nil {
		log.WithError(werr).Warn("failed to write error response")
	}
}
