package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByChatID filters chat messages of one chat.
type ByChatID struct {
	ChatID uuid.UUID
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}
