package models

import (
	"time"

	"gorm.io/gorm"
)

type Config struct {
	gorm.Model
	GuildId          string `gorm:"uniqueIndex"`
	WelcomeChannelId string
}

type WelcomeMessage struct {
	ID       uint   `gorm:"primaryKey"`
	GuildId  string `gorm:"index"`
	Position int
	Content  string
}

type SentEmbed struct {
	MessageId string `gorm:"primaryKey"`
	GuildId   string
	ChannelId string
	CreatedAt time.Time
}

var All = []interface{}{&Config{}, &WelcomeMessage{}, &SentEmbed{}}
