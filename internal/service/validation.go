package service

import (
	"unicode/utf8"

	"github.com/maxviazov/settings-service/internal/config"
	"github.com/maxviazov/settings-service/internal/repository"
	"github.com/tidwall/gjson"
)

// IsJSONObject reports whether data is a single well-formed UTF-8 JSON object.
func IsJSONObject(data []byte) bool {
	return utf8.Valid(data) && gjson.ValidBytes(data) && gjson.ParseBytes(data).IsObject()
}

func validatePayload(data []byte) error {
	switch {
	case len(data) == 0:
		return NewInvalidInputError([]FieldError{{Field: "body", Message: "must not be empty"}})
	case !utf8.Valid(data):
		return NewInvalidInputError([]FieldError{{Field: "body", Message: "must be valid UTF-8 JSON"}})
	case !gjson.ValidBytes(data):
		return NewInvalidInputError([]FieldError{{Field: "body", Message: "must be valid JSON"}})
	case !IsJSONObject(data):
		return NewInvalidInputError([]FieldError{{Field: "body", Message: "must be a JSON object"}})
	}
	return nil
}

// normalizePage applies effective_limit = min(limit or default, max) and offset default 0.
func normalizePage(q PageQuery, cfg config.PaginationConfig) (repository.Page, error) {
	var ferrs []FieldError
	limit := cfg.DefaultLimit
	if q.Limit != nil {
		limit = *q.Limit
		if limit < 0 {
			ferrs = append(ferrs, FieldError{Field: "limit", Message: "must be >= 0"})
		}
	}
	offset := 0
	if q.Offset != nil {
		offset = *q.Offset
		if offset < 0 {
			ferrs = append(ferrs, FieldError{Field: "offset", Message: "must be >= 0"})
		}
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return repository.Page{}, err
	}
	if cfg.MaxLimit > 0 {
		limit = min(limit, cfg.MaxLimit)
	}
	return repository.Page{Limit: limit, Offset: offset}, nil
}
