package postgres

import (
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// applyPaginationAndSort clamps the page and orders by a whitelisted column
func applyPaginationAndSort(query *gorm.DB, limit, offset int, sortBy, sortOrder string, allowed map[string]string, defaultColumn string) *gorm.DB {
	column, ok := allowed[strings.ToLower(sortBy)]
	if !ok {
		column = defaultColumn
	}

	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return query.Order(column + " " + direction).Order("id " + direction).Limit(limit).Offset(offset)
}

// likePattern escapes LIKE wildcards in user input
func likePattern(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
	return "%" + escaped + "%"
}
