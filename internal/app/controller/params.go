package controller

import (
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/ctoapp/cto-backend/internal/app/repository"
	"github.com/ctoapp/cto-backend/internal/app/service"
	apperrors "github.com/ctoapp/cto-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// parseListFilter reads the common listing query parameters. Pagination is
// on unless explicitly disabled; active/deleted accept 0/1 overrides of the
// default visibility scope.
func parseListFilter(c *gin.Context) repository.ListFilter {
	filter := repository.ListFilter{
		Name:     c.Query("name"),
		Page:     parseIntQuery(c, "page", repository.DefaultPage),
		Limit:    parseIntQuery(c, "limit", repository.DefaultLimit),
		Paginate: true,
	}

	if v := c.Query("pagination"); v == "false" || v == "0" {
		filter.Paginate = false
	}
	filter.Active = parseBoolFlag(c.Query("active"))
	filter.Deleted = parseBoolFlag(c.Query("deleted"))

	return filter
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// parseBoolFlag maps "1"/"true" and "0"/"false" to a bool, anything else to
// nil so the default scope applies.
func parseBoolFlag(v string) *bool {
	switch v {
	case "1", "true":
		b := true
		return &b
	case "0", "false":
		b := false
		return &b
	}
	return nil
}

// parseIDList reads a repeated or comma separated id query parameter.
func parseIDList(c *gin.Context, key string) []uint {
	var ids []uint
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, uint(n))
		}
	}
	return ids
}

// parsePathID reads the numeric :id path parameter.
func parsePathID(c *gin.Context) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, apperrors.Validation("Invalid id")
	}
	return uint(n), nil
}

// parseJSONField decodes a JSON-encoded form value into dest. Multipart
// forms carry arrays as JSON strings. A missing value leaves dest untouched.
func parseJSONField(c *gin.Context, key string, dest interface{}) error {
	v := c.PostForm(key)
	if v == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(v), dest); err != nil {
		return apperrors.Validation("Invalid " + key + " payload")
	}
	return nil
}

// formUpload opens an optional multipart file part. Returns nil when the
// part is absent. The caller owns the returned closer.
func formUpload(c *gin.Context, field string) (*service.Upload, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, apperrors.Internal("failed to read uploaded file", err)
	}

	return &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
		Size:        header.Size,
	}, file, nil
}

// listResponse is the envelope body of every paginated listing.
func listResponse(docs interface{}, page repository.PageInfo) gin.H {
	return gin.H{
		"docs":       docs,
		"total":      page.Total,
		"page":       page.Page,
		"limit":      page.Limit,
		"totalPages": page.TotalPages,
	}
}
