package repository

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ListFilter is the query shape shared by every catalog listing: substring
// name matching plus explicit overrides of the active/deleted scope.
type ListFilter struct {
	Name     string
	Active   *bool
	Deleted  *bool
	Page     int
	Limit    int
	Paginate bool
}

// PageInfo describes one page of a listing result.
type PageInfo struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// applyScope narrows a query to the visible rows: non-deleted and active by
// default, unless the filter explicitly asks otherwise.
func applyScope(query *gorm.DB, table string, filter ListFilter) *gorm.DB {
	deleted := false
	if filter.Deleted != nil {
		deleted = *filter.Deleted
	}
	query = query.Where(fmt.Sprintf("%s.is_deleted = ?", table), deleted)

	active := true
	if filter.Active != nil {
		active = *filter.Active
	}
	query = query.Where(fmt.Sprintf("%s.is_active = ?", table), active)

	if filter.Name != "" {
		query = query.Where(fmt.Sprintf("LOWER(%s.name) LIKE ?", table), "%"+strings.ToLower(filter.Name)+"%")
	}

	return query
}

// paginate counts the scoped rows, applies offset/limit and returns the page
// descriptor. With Paginate off the whole result set is returned as one page.
func paginate(query *gorm.DB, filter ListFilter) (*gorm.DB, PageInfo, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, PageInfo{}, err
	}

	page := filter.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := filter.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	if !filter.Paginate {
		return query, PageInfo{Total: total, Page: 1, Limit: int(total), TotalPages: 1}, nil
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	query = query.Offset((page - 1) * limit).Limit(limit)
	return query, PageInfo{Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

// softDelete flags the row deleted and inactive and stamps the editor.
// Returns gorm.ErrRecordNotFound when no live row matched.
func softDelete(db *gorm.DB, value interface{}, id, editorID uint) error {
	result := db.Model(value).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted":   true,
			"is_active":    false,
			"last_edit_at": time.Now(),
			"last_edit_by": editorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
