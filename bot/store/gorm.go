package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"welcomebot/bot/models"
)

// GormBackend stores the maps as relational tables.
type GormBackend struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*GormBackend, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	return NewGormBackend(db)
}

func OpenSQLite(path string) (*GormBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	return NewGormBackend(db)
}

// NewGormBackend creates any missing tables.
func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	for _, model := range models.All {
		if db.Migrator().HasTable(model) {
			continue
		}
		if err := db.Migrator().CreateTable(model); err != nil {
			return nil, fmt.Errorf("could not create table: %w", err)
		}
	}
	return &GormBackend{db: db}, nil
}

func (b *GormBackend) LoadWelcomeMessages() (map[string][]string, error) {
	var rows []models.WelcomeMessage

	result := b.db.Order("guild_id, position").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	m := make(map[string][]string)
	for _, row := range rows {
		m[row.GuildId] = append(m[row.GuildId], row.Content)
	}
	return m, nil
}

func (b *GormBackend) SaveWelcomeMessages(m map[string][]string) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.WelcomeMessage{}).Error; err != nil {
			return err
		}

		var rows []models.WelcomeMessage
		for guildID, list := range m {
			for i, content := range list {
				rows = append(rows, models.WelcomeMessage{GuildId: guildID, Position: i, Content: content})
			}
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (b *GormBackend) LoadSentEmbeds() (map[string]Location, error) {
	var rows []models.SentEmbed

	result := b.db.Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	m := make(map[string]Location, len(rows))
	for _, row := range rows {
		m[row.MessageId] = Location{GuildID: row.GuildId, ChannelID: row.ChannelId}
	}
	return m, nil
}

// SaveSentEmbeds inserts entries that are not stored yet. Entries are never
// rewritten.
func (b *GormBackend) SaveSentEmbeds(m map[string]Location) error {
	if len(m) == 0 {
		return nil
	}

	rows := make([]models.SentEmbed, 0, len(m))
	for messageID, loc := range m {
		rows = append(rows, models.SentEmbed{MessageId: messageID, GuildId: loc.GuildID, ChannelId: loc.ChannelID})
	}

	return b.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, 100).Error
}

func (b *GormBackend) LoadWelcomeChannels() (map[string]string, error) {
	var rows []models.Config

	result := b.db.Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	m := make(map[string]string, len(rows))
	for _, row := range rows {
		m[row.GuildId] = row.WelcomeChannelId
	}
	return m, nil
}

func (b *GormBackend) SaveWelcomeChannels(m map[string]string) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		for guildID, channelID := range m {
			var config models.Config

			result := tx.Where(&models.Config{GuildId: guildID}).
				Assign(models.Config{WelcomeChannelId: channelID}).
				FirstOrCreate(&config)
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
}

func (b *GormBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
