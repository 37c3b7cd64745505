// Package imageprobe reads image dimensions so events can be shown in a card
// matching their aspect bucket. Only the image header is decoded.
package imageprobe

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/webp"

	"clubhouse/internal/domain/event"
)

// DefaultMaxBytes bounds how much of a remote image is read.
const DefaultMaxBytes = 2 << 20

// LocalResolver maps an uploaded image's public path to a file on disk.
type LocalResolver interface {
	LocalPath(publicPath string) (string, error)
}

// Prober fetches images and classifies their aspect ratio.
type Prober struct {
	Client   *http.Client
	Local    LocalResolver
	MaxBytes int64
}

// New returns a Prober with a 5 second client timeout.
func New(local LocalResolver) *Prober {
	return &Prober{
		Client:   &http.Client{Timeout: 5 * time.Second},
		Local:    local,
		MaxBytes: DefaultMaxBytes,
	}
}

// Dimensions returns the width and height of the image at ref, which is either
// an "/uploads/..." path or an absolute http(s) URL.
func (p *Prober) Dimensions(ctx context.Context, ref string) (int, int, error) {
	var r io.ReadCloser
	var err error
	if strings.HasPrefix(ref, "/") {
		r, err = p.openLocal(ref)
	} else {
		r, err = p.openRemote(ctx, ref)
	}
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	max := p.MaxBytes
	if max <= 0 {
		max = DefaultMaxBytes
	}
	cfg, _, err := image.DecodeConfig(io.LimitReader(r, max))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Aspect classifies the image at ref. An empty ref or any probe failure
// yields the standard bucket.
func (p *Prober) Aspect(ctx context.Context, ref string) event.Aspect {
	if ref == "" {
		return event.AspectStandard
	}
	w, h, err := p.Dimensions(ctx, ref)
	if err != nil {
		slog.Warn("image_probe_failed", "ref", ref, "error", err)
		return event.AspectStandard
	}
	return event.ClassifyAspect(float64(w), float64(h))
}

func (p *Prober) openLocal(ref string) (io.ReadCloser, error) {
	if p.Local == nil {
		return nil, errors.New("no local image resolver configured")
	}
	path, err := p.Local.LocalPath(ref)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (p *Prober) openRemote(ctx context.Context, ref string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
