package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"welcomebot/packages/atomicfile"
)

const (
	WelcomeMessagesFile = "welcome_messages.json"
	SentEmbedsFile      = "sent_embeds.json"
	WelcomeChannelsFile = "welcome_channels.json"
)

// JSONBackend keeps each map in its own file under a data directory.
type JSONBackend struct {
	dir string
}

func NewJSONBackend(dir string) (*JSONBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONBackend{dir: dir}, nil
}

func (b *JSONBackend) LoadWelcomeMessages() (map[string][]string, error) {
	m := make(map[string][]string)
	return m, b.load(WelcomeMessagesFile, &m)
}

func (b *JSONBackend) SaveWelcomeMessages(m map[string][]string) error {
	return b.save(WelcomeMessagesFile, m)
}

func (b *JSONBackend) LoadSentEmbeds() (map[string]Location, error) {
	m := make(map[string]Location)
	return m, b.load(SentEmbedsFile, &m)
}

func (b *JSONBackend) SaveSentEmbeds(m map[string]Location) error {
	return b.save(SentEmbedsFile, m)
}

func (b *JSONBackend) LoadWelcomeChannels() (map[string]string, error) {
	m := make(map[string]string)
	return m, b.load(WelcomeChannelsFile, &m)
}

func (b *JSONBackend) SaveWelcomeChannels(m map[string]string) error {
	return b.save(WelcomeChannelsFile, m)
}

func (b *JSONBackend) Close() error { return nil }

func (b *JSONBackend) load(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(b.dir, name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("read %s: %w", name, err)
	case len(bytes.TrimSpace(data)) == 0:
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// save writes UTF-8 as is. HTML escaping would turn mentions like <@id> into
// \u003c@id\u003e.
func (b *JSONBackend) save(name string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	if err := atomicfile.Write(filepath.Join(b.dir, name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
