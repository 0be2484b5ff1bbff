package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/disintegration/imaging"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/brandforge/brandforge/internal/logger"
)

// OpenAI generates hero images through the OpenAI Images API and resizes
// the result to the requested pixel size.
type OpenAI struct {
	model  string
	opts   []option.RequestOption
	logger *logger.Logger
}

// Settings configures the OpenAI provider.
type Settings struct {
	Model   string
	APIKey  string
	BaseURL string
}

// NewOpenAI creates an OpenAI-backed provider.
func NewOpenAI(cfg Settings, log *logger.Logger) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set provider.api_key or BRANDFORGE_PROVIDER_API_KEY")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai image model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{model: cfg.Model, opts: opts, logger: log}, nil
}

// Name implements Provider.
func (o *OpenAI) Name() string { return "openai" }

// Generate implements Provider. The API returns square images at a fixed
// set of sizes, so the nearest supported square is requested and the
// decoded result resized to the caller's dimensions.
func (o *OpenAI) Generate(ctx context.Context, prompt string, size image.Point) (image.Image, error) {
	client := openai.NewClient(o.opts...)

	start := time.Now()
	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModel(o.model),
		Prompt: prompt,
		Size:   openai.ImageGenerateParamsSize1024x1024,
		N:      openai.Int(1),
	})
	if err != nil {
		return nil, fmt.Errorf("openai image generation failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.New("openai: empty image response")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai: failed to decode image payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("openai: failed to decode image: %w", err)
	}

	o.logger.Debug("Hero image generated",
		zap.String("model", o.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("width", size.X),
		zap.Int("height", size.Y),
	)

	return imaging.Resize(img, size.X, size.Y, imaging.Lanczos), nil
}
