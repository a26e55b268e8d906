// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"
)

// maxBodyBytes bounds request bodies; every accepted body is a handful of
// scalar fields.
const maxBodyBytes = 64 << 10

type transformRequest struct {
	FilePath string `json:"file_path"`
	Stage    int    `json:"stage"`
}

type meshRequest struct {
	FilePath string `json:"file_path"`
	ToothID  int    `json:"tooth_id"`
}

// fieldSpec describes one accepted body field.
type fieldSpec struct {
	name     string
	kind     gjson.Type
	integer  bool
	required bool
}

var (
	transformFields = []fieldSpec{
		{name: "file_path", kind: gjson.String},
		{name: "stage", kind: gjson.Number, integer: true},
	}
	meshFields = []fieldSpec{
		{name: "file_path", kind: gjson.String},
		{name: "tooth_id", kind: gjson.Number, integer: true, required: true},
	}
)

func badRequest(format string, args ...any) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// readBody returns the raw request body, or nil for an empty one.
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return nil, badRequest("failed to read request body: %v", err)
	}
	if len(body) > maxBodyBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

// decodeBody checks body against fields and then decodes it into v. Unknown
// fields are ignored; a null field counts as absent.
func decodeBody(body []byte, fields []fieldSpec, v any) error {
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !gjson.ValidBytes(body) {
		return badRequest("request body is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return badRequest("request body must be a JSON object")
	}

	for _, f := range fields {
		res := doc.Get(f.name)
		if !res.Exists() || res.Type == gjson.Null {
			if f.required {
				return badRequest("field %q is required", f.name)
			}
			continue
		}
		if res.Type != f.kind {
			return badRequest("field %q must be %s", f.name, kindName(f))
		}
		if f.integer {
			if _, err := strconv.Atoi(res.Raw); err != nil {
				return badRequest("field %q must be an integer, got %s", f.name, res.Raw)
			}
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return badRequest("malformed request body: %v", err)
	}
	return nil
}

func kindName(f fieldSpec) string {
	switch {
	case f.integer:
		return "an integer"
	case f.kind == gjson.String:
		return "a string"
	}
	return "a " + strings.ToLower(f.kind.String())
}

func (s *Server) bindTransformRequest(c echo.Context) (transformRequest, error) {
	var req transformRequest

	if c.Request().Method == http.MethodGet {
		req.FilePath = c.QueryParam("file_path")
		if raw := c.QueryParam("stage"); raw != "" {
			stage, err := strconv.Atoi(raw)
			if err != nil {
				return req, badRequest("query parameter \"stage\" must be an integer, got %q", raw)
			}
			req.Stage = stage
		}
	} else {
		body, err := readBody(c)
		if err != nil {
			return req, err
		}
		if err := decodeBody(body, transformFields, &req); err != nil {
			return req, err
		}
	}

	if req.Stage < 0 {
		return req, badRequest("field \"stage\" must not be negative, got %d", req.Stage)
	}
	if req.FilePath == "" {
		req.FilePath = s.defaultPath
	}
	return req, nil
}

func (s *Server) bindMeshRequest(c echo.Context) (meshRequest, error) {
	var req meshRequest

	body, err := readBody(c)
	if err != nil {
		return req, err
	}
	if err := decodeBody(body, meshFields, &req); err != nil {
		return req, err
	}

	if req.FilePath == "" {
		req.FilePath = s.defaultPath
	}
	return req, nil
}
