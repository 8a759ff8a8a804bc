package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/fluent-web3/agent/internal/agent/model"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

// badgeLayouts maps each badge format to its composition directive.
var badgeLayouts = map[model.BadgeFormat]string{
	model.BadgeSquare:      "square 1:1 social media badge, centered emblem",
	model.BadgeStory:       "vertical 9:16 story layout, emblem in the upper third",
	model.BadgeCertificate: "landscape 4:3 certificate, ornamental border, title banner",
	model.BadgePoster:      "portrait 3:4 poster, bold headline, emblem as hero element",
	model.BadgeBanner:      "wide 16:9 banner, emblem left, achievement text right",
}

// BadgeGenerator renders achievement badge images via the Gemini image
// model. A zero-value generator is disabled and rejects every request.
type BadgeGenerator struct {
	client *genai.Client
	model  string
}

// NewBadgeGenerator returns a generator over the shared genai client. An
// empty model name yields a disabled generator.
func NewBadgeGenerator(client *genai.Client, imageModel string) *BadgeGenerator {
	return &BadgeGenerator{client: client, model: imageModel}
}

func (g *BadgeGenerator) Enabled() bool {
	return g != nil && g.client != nil && g.model != ""
}

// GenerateBadge renders one badge image and returns it base64-encoded along
// with the prompt used and the wall-clock generation time.
func (g *BadgeGenerator) GenerateBadge(ctx context.Context, req model.BadgeRequest) (*model.BadgeResult, error) {
	if !g.Enabled() {
		return nil, fmt.Errorf("badge image generation is not configured")
	}

	prompt := badgePrompt(req)
	start := time.Now()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		logx.Error().Err(err).Str("domain", req.Domain).Str("format", string(req.Format)).Msg("badge generation failed")
		return nil, fmt.Errorf("badge generation: %w", err)
	}

	imageData := firstInlineImage(resp)
	if imageData == "" {
		return nil, fmt.Errorf("badge generation: model returned no image")
	}

	elapsed := time.Since(start).Seconds()
	logx.Debug().
		Str("domain", req.Domain).
		Str("format", string(req.Format)).
		Float64("seconds", elapsed).
		Msg("badge generated")

	return &model.BadgeResult{
		ImageData:      imageData,
		PromptUsed:     prompt,
		GenerationTime: elapsed,
	}, nil
}

func badgePrompt(req model.BadgeRequest) string {
	layout := badgeLayouts[model.ParseBadgeFormat(string(req.Format))]

	var b strings.Builder
	fmt.Fprintf(&b, "Achievement badge for mastering %s in Web3. ", req.Domain)
	fmt.Fprintf(&b, "Score %d, %d knowledge graph nodes. ", req.Score, req.NodeCount)
	if len(req.Concepts) > 0 {
		fmt.Fprintf(&b, "Key concepts: %s. ", strings.Join(req.Concepts, ", "))
	}
	b.WriteString("Style: modern flat design, dark background, neon accents, no photographic elements. ")
	b.WriteString("Layout: " + layout + ".")
	return b.String()
}

func firstInlineImage(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return base64.StdEncoding.EncodeToString(part.InlineData.Data)
			}
		}
	}
	return ""
}
