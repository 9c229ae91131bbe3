package storage

import (
	"fmt"
	"time"

	"github.com/adfharrison1/go-docstore/pkg/domain"
)

// PaginateRefs cuts one page out of refs, which must be in ascending id order.
// The after cursor names the last ref of the previous page, so a page resumes
// correctly even when that ref has since been deleted.
func PaginateRefs(refs []domain.Ref, options *domain.PaginationOptions) (*domain.Page, error) {
	if options == nil {
		options = domain.DefaultPaginationOptions()
	}
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pagination options: %v: %w", err, domain.ErrInvalidArgument)
	}

	startIndex := 0
	if options.After != "" {
		cursor, err := domain.DecodeCursor(options.After)
		if err != nil {
			return nil, fmt.Errorf("invalid after cursor: %v: %w", err, domain.ErrInvalidArgument)
		}
		for startIndex < len(refs) && !domain.LessID(cursor.ID, refs[startIndex].ID) {
			startIndex++
		}
	}

	size := options.Size
	if size <= 0 {
		size = domain.DefaultPageSize
	}

	endIndex := len(refs)
	hasNext := false
	if startIndex+size < endIndex {
		endIndex = startIndex + size
		hasNext = true
	}

	page := &domain.Page{Data: []interface{}{}}
	if startIndex >= len(refs) {
		return page, nil
	}
	for _, ref := range refs[startIndex:endIndex] {
		page.Data = append(page.Data, ref)
	}

	if hasNext {
		after, err := domain.EncodeCursor(&domain.Cursor{ID: refs[endIndex-1].ID, Timestamp: time.Now()})
		if err != nil {
			return nil, err
		}
		page.After = after
	}
	if startIndex > 0 {
		before, err := domain.EncodeCursor(&domain.Cursor{ID: refs[startIndex].ID, Timestamp: time.Now()})
		if err != nil {
			return nil, err
		}
		page.Before = before
	}
	return page, nil
}
