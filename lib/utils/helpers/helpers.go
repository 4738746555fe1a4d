package helpers

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// IsUUID идентификаторы и токены ссылок выдаются БД в формате uuid
func IsUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func Optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func Deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
