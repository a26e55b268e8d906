// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"

	"github.com/staranto/orthoview/internal/extract"
)

// HeaderMissingTransforms carries the number of teeth that had no transform
// for the requested stage. Those teeth are still present in the body as null.
const HeaderMissingTransforms = "X-Missing-Transforms"

type messageResponse struct {
	Message string `json:"message"`
}

type filePathResponse struct {
	FilePath string `json:"file_path"`
}

func (s *Server) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "pong"})
}

func (s *Server) stageTransforms(c echo.Context) error {
	req, err := s.bindTransformRequest(c)
	if err != nil {
		return err
	}

	oc, err := s.cases.Get(c.Request().Context(), req.FilePath)
	if err != nil {
		return loadError(req.FilePath, err)
	}

	results := extract.StageTransforms(oc, req.Stage)
	missing := len(results.Failed())
	if missing > 0 {
		log.Warnf("stage %d of %s: %d of %d teeth have no transform", req.Stage, req.FilePath, missing, len(results))
	}

	c.Response().Header().Set(HeaderMissingTransforms, strconv.Itoa(missing))
	return c.JSON(http.StatusOK, results.Map())
}

func (s *Server) caseFilePath(c echo.Context) error {
	if path, ok := s.cases.Current(); ok {
		return c.JSON(http.StatusOK, filePathResponse{FilePath: path})
	}

	oc, err := s.cases.Get(c.Request().Context(), s.defaultPath)
	if err != nil {
		return loadError(s.defaultPath, err)
	}
	return c.JSON(http.StatusOK, filePathResponse{FilePath: oc.Path()})
}

func (s *Server) toothMesh(c echo.Context) error {
	req, err := s.bindMeshRequest(c)
	if err != nil {
		return err
	}

	oc, err := s.cases.Get(c.Request().Context(), req.FilePath)
	if err != nil {
		return loadError(req.FilePath, err)
	}

	meshes, err := extract.ToothMeshes(oc, req.ToothID)
	if err != nil {
		if errors.Is(err, extract.ErrToothNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build tooth meshes").SetInternal(err)
	}

	return c.JSON(http.StatusOK, meshes)
}
