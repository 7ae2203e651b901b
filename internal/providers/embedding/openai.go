package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

const (
	// maxInputChars is the provider's accepted input budget; longer text is
	// truncated before submission.
	maxInputChars = 8000

	requestTimeout = 30 * time.Second

	defaultDimensions = 1536
)

// OpenAIProvider calls the OpenAI embeddings API.
type OpenAIProvider struct {
	sdk        openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

type Option func(*OpenAIProvider)

// WithDimensions sets the requested vector length (must match the DB column).
func WithDimensions(dim int) Option {
	return func(p *OpenAIProvider) { p.dimensions = dim }
}

func NewOpenAIProvider(apiKey string, opts ...Option) *OpenAIProvider {
	p := &OpenAIProvider{
		sdk:        openai.NewClient(option.WithAPIKey(apiKey)),
		model:      openai.EmbeddingModelTextEmbedding3Small,
		dimensions: defaultDimensions,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenAIProvider) Dimensions() int { return p.dimensions }

// Embed returns the embedding for text, truncated to the provider limit.
// A partial or zero-length vector is a failure, never a result.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := p.sdk.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: param.NewOpt(text),
		},
		Model:      p.model,
		Dimensions: param.NewOpt(int64(p.dimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding in response", ErrUnavailable)
	}

	emb := resp.Data[0].Embedding
	if len(emb) != p.dimensions {
		return nil, fmt.Errorf("%w: got %d dimensions, want %d", ErrUnavailable, len(emb), p.dimensions)
	}

	out := make([]float32, len(emb))
	for i := range emb {
		out[i] = float32(emb[i])
	}
	return out, nil
}
