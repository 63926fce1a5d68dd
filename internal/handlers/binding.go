package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat attempts to bind the request body to obj.
// It first checks if the body contains a nested object with the given key
// (e.g. {"lease": {...}}) and binds that. If the key is missing it falls back
// to binding the entire body, so both nested and flat payloads work.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
	}
	// Restore body for future binding or subsequent reads
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var nestedMap map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &nestedMap); err == nil {
		if val, ok := nestedMap[key]; ok {
			return json.Unmarshal(val, obj)
		}
	}

	return json.Unmarshal(bodyBytes, obj)
}

// parseListQuery builds a ListQuery from common query parameters.
// Sort uses the "field-direction" format, e.g. due_date-desc.
func parseListQuery(c *gin.Context, filterKeys ...string) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 || query.PerPage > 100 {
		query.PerPage = 20
	}

	query.Search = c.Query("search")

	for _, key := range filterKeys {
		if val := c.Query(key); val != "" {
			query.Filters[key] = val
		}
	}

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = sortColumn(parts[0])
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	return query
}

// sortColumn whitelists sortable columns to keep user input out of SQL
func sortColumn(field string) string {
	switch field {
	case "id", "created_at", "updated_at", "due_date", "start_date", "end_date",
		"amount", "status", "full_name", "name", "label", "paid_at":
		return field
	}
	return ""
}
