package store

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrEmptyMessage    = errors.New("welcome message is empty")
)

var DefaultWelcomeMessages = []string{
	"Welcome! Glad you made it here!",
	"Yo! Welcome to our server!",
	"LET'S GOOO! Has joined the gang!",
	"It's so good to have you here!",
	"Welcome! Great to have you here!",
}

// Location is where a message the bot sent lives.
type Location struct {
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
}

// Backend persists the bot's maps. Every Save receives the complete map.
type Backend interface {
	LoadWelcomeMessages() (map[string][]string, error)
	SaveWelcomeMessages(map[string][]string) error
	LoadSentEmbeds() (map[string]Location, error)
	SaveSentEmbeds(map[string]Location) error
	LoadWelcomeChannels() (map[string]string, error)
	SaveWelcomeChannels(map[string]string) error
	Close() error
}

// Store owns the in-memory state and writes it through to the backend after
// every mutation.
type Store struct {
	backend Backend

	mu       sync.RWMutex
	welcome  map[string][]string
	sent     map[string]Location
	channels map[string]string
}

func Open(backend Backend) (*Store, error) {
	welcome, err := backend.LoadWelcomeMessages()
	if err != nil {
		return nil, fmt.Errorf("failed to load welcome messages: %w", err)
	}
	sent, err := backend.LoadSentEmbeds()
	if err != nil {
		return nil, fmt.Errorf("failed to load sent embeds: %w", err)
	}
	channels, err := backend.LoadWelcomeChannels()
	if err != nil {
		return nil, fmt.Errorf("failed to load welcome channels: %w", err)
	}

	s := &Store{
		backend:  backend,
		welcome:  welcome,
		sent:     sent,
		channels: channels,
	}
	if s.welcome == nil {
		s.welcome = make(map[string][]string)
	}
	if s.sent == nil {
		s.sent = make(map[string]Location)
	}
	if s.channels == nil {
		s.channels = make(map[string]string)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}
