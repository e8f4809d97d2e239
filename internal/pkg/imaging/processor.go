package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// Avatar is a processed, square avatar image.
type Avatar struct {
	Data        []byte
	ContentType string
	Size        int
}

// Config for avatar processing
type Config struct {
	Size    int // square edge in pixels (default 256)
	Quality int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		Size:    256,
		Quality: 85,
	}
}

// Processor handles image processing
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	if config.Size <= 0 {
		config.Size = DefaultConfig().Size
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = DefaultConfig().Quality
	}
	return &Processor{config: config}
}

// Avatar decodes data and center-crops it to a square.
// PNG stays PNG so transparency survives; everything else becomes JPEG.
func (p *Processor) Avatar(data []byte) (*Avatar, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fill(img, p.config.Size, p.config.Size, imaging.Center, imaging.Lanczos)

	encoded, contentType, err := p.encode(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	return &Avatar{
		Data:        encoded,
		ContentType: contentType,
		Size:        p.config.Size,
	}, nil
}

func (p *Processor) encode(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer

	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	}

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/jpeg", nil
}
