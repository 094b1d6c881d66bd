package avatar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-cleanhttp"
	_ "golang.org/x/image/webp"
)

// MaxBytes caps the size of a downloaded avatar.
const MaxBytes = 8 << 20

var (
	ErrInvalidURL = errors.New("invalid avatar url")
	ErrEmptyImage = errors.New("avatar image is empty")
)

type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher using client, or a fresh non-shared client
// when client is nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = cleanhttp.DefaultClient()
	}
	return &Fetcher{client: client}
}

// Fetch downloads the image at rawURL and returns it as an NRGBA buffer.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*image.NRGBA, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("avatar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avatar request failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading avatar: %w", err)
	}

	return Decode(data)
}

// Decode turns encoded png, jpeg, gif or webp bytes into an NRGBA buffer.
func Decode(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding avatar: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	return imaging.Clone(img), nil
}
