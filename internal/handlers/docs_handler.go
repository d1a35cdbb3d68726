package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// staticDocument is an embedded file served with a strong ETag
type staticDocument struct {
	body         []byte
	etag         string
	contentType  string
	cacheControl string
}

func newStaticDocument(body []byte, contentType, cacheControl string) staticDocument {
	doc := staticDocument{body: body, contentType: contentType, cacheControl: cacheControl}
	if len(body) > 0 {
		sum := sha256.Sum256(body)
		doc.etag = `"` + hex.EncodeToString(sum[:16]) + `"`
	}
	return doc
}

// matches reports whether an If-None-Match header names this document's ETag
func (d staticDocument) matches(ifNoneMatch string) bool {
	if d.etag == "" || ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == d.etag {
			return true
		}
	}
	return false
}

func (d staticDocument) serve(c echo.Context) error {
	header := c.Response().Header()
	header.Set("Cache-Control", d.cacheControl)
	if d.etag != "" {
		header.Set("ETag", d.etag)
	}

	if d.matches(c.Request().Header.Get("If-None-Match")) {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(http.StatusOK, d.contentType, d.body)
}

// DocsHandler serves the Scalar API reference and the OpenAPI document it renders
type DocsHandler struct {
	scalar  staticDocument
	openAPI staticDocument
}

// NewDocsHandler creates a new documentation handler over the Scalar page and the OpenAPI document
func NewDocsHandler(scalarHTML, openAPI []byte) *DocsHandler {
	return &DocsHandler{
		scalar:  newStaticDocument(scalarHTML, "text/html; charset=utf-8", "no-cache"),
		openAPI: newStaticDocument(openAPI, "application/json; charset=utf-8", "public, max-age=300"),
	}
}

// ServeScalarUI serves the Scalar HTML page
// @Summary API Documentation UI
// @Description Serves the interactive Scalar documentation interface
// @Tags Documentation
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /docs [get]
func (h *DocsHandler) ServeScalarUI(c echo.Context) error {
	return h.scalar.serve(c)
}

// ServeOpenAPI serves the OpenAPI document loaded by the Scalar page.
// The document may be fetched cross-origin by API tooling.
func (h *DocsHandler) ServeOpenAPI(c echo.Context) error {
	if len(h.openAPI.body) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "API specification is not available")
	}

	header := c.Response().Header()
	header.Set(echo.HeaderAccessControlAllowOrigin, "*")
	header.Set(echo.HeaderAccessControlAllowMethods, "GET, OPTIONS")
	return h.openAPI.serve(c)
}
