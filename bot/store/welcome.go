package store

import (
	"fmt"
	"strings"
)

// Messages returns the guild's welcome templates, or the defaults when the
// guild has none stored.
func (s *Store) Messages(guildID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.messages(guildID)
}

func (s *Store) messages(guildID string) []string {
	if stored := s.welcome[guildID]; len(stored) > 0 {
		return append([]string(nil), stored...)
	}
	return append([]string(nil), DefaultWelcomeMessages...)
}

func (s *Store) AddMessage(guildID, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveMessages(guildID, append(s.messages(guildID), text))
}

// RemoveMessage deletes the template at the 1-based index and returns it.
func (s *Store) RemoveMessage(guildID string, index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.messages(guildID)
	if index < 1 || index > len(list) {
		return "", fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(list))
	}

	removed := list[index-1]
	list = append(list[:index-1], list[index:]...)

	return removed, s.saveMessages(guildID, list)
}

// EditMessage replaces the template at the 1-based index and returns the old text.
func (s *Store) EditMessage(guildID string, index int, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.messages(guildID)
	if index < 1 || index > len(list) {
		return "", fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(list))
	}

	old := list[index-1]
	list[index-1] = text

	return old, s.saveMessages(guildID, list)
}

func (s *Store) saveMessages(guildID string, list []string) error {
	previous, existed := s.welcome[guildID]
	s.welcome[guildID] = list

	if err := s.backend.SaveWelcomeMessages(s.welcome); err != nil {
		if existed {
			s.welcome[guildID] = previous
		} else {
			delete(s.welcome, guildID)
		}
		return fmt.Errorf("failed to save welcome messages: %w", err)
	}
	return nil
}

func (s *Store) WelcomeChannel(guildID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channelID, ok := s.channels[guildID]
	return channelID, ok && channelID != ""
}

func (s *Store) SetWelcomeChannel(guildID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.channels[guildID]
	s.channels[guildID] = channelID

	if err := s.backend.SaveWelcomeChannels(s.channels); err != nil {
		if existed {
			s.channels[guildID] = previous
		} else {
			delete(s.channels, guildID)
		}
		return fmt.Errorf("failed to save welcome channels: %w", err)
	}
	return nil
}
