package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// applyFilter applies pagination and ordering to a query. Sort columns are
// validated against a whitelist; an unknown column falls back to created_at
// so user input can never reach the ORDER BY clause raw.
func applyFilter(query *gorm.DB, filter shared.Filter, sortable map[string]bool) *gorm.DB {
	orderBy := "created_at"
	if filter.OrderBy != "" && sortable[filter.OrderBy] {
		orderBy = filter.OrderBy
	}
	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}
	query = query.Order(orderBy + " " + dir)

	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}
