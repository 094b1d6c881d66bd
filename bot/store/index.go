package store

import "fmt"

// RecordEmbed remembers where a bot-sent embed message lives. An id already
// recorded keeps its first location.
func (s *Store) RecordEmbed(messageID, guildID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sent[messageID]; ok {
		return nil
	}

	s.sent[messageID] = Location{GuildID: guildID, ChannelID: channelID}

	if err := s.backend.SaveSentEmbeds(s.sent); err != nil {
		delete(s.sent, messageID)
		return fmt.Errorf("failed to save sent embeds: %w", err)
	}
	return nil
}

func (s *Store) LookupEmbed(messageID string) (Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.sent[messageID]
	return loc, ok
}
