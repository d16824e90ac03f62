// Package generate produces LLM replies to forum posts through the Gemini
// API, forming the generated corpus that mirrors the community one.
package generate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/wordgap/wordgap/pkg/corpus"
	"github.com/wordgap/wordgap/pkg/scrape"
)

// DefaultModel is the Gemini model used when the configuration names none.
const DefaultModel = "gemini-2.0-flash"

// Generator produces one reply per forum post. The client is constructed
// once by the caller and passed around explicitly; there is no
// package-level client state.
type Generator struct {
	client *genai.Client
	model  string
	log    *zap.SugaredLogger
}

// New creates a Generator. The API key is required; the model defaults to
// DefaultModel.
func New(ctx context.Context, apiKey, model string, log *zap.SugaredLogger) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("generate: API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("generate: create client: %w", err)
	}
	return &Generator{client: client, model: model, log: log}, nil
}

// buildPrompt steers the model toward an anonymous player's voice so the
// reply mimics a generic user on the thread rather than a developer.
func buildPrompt(gameTitle string, post scrape.Post) string {
	return fmt.Sprintf(
		"You are a player (do not act like a dev, that is dishonest and unhelpful) "+
			"on a forum discussing %s. Reply to a post with the title [%s] with content [%s]",
		gameTitle, post.Title, post.Body,
	)
}

// Reply generates a single reply to post. Every failure path returns the
// empty string: a missing reply becomes a zero-content document downstream,
// never an aborted batch.
func (g *Generator) Reply(ctx context.Context, gameTitle string, post scrape.Post) string {
	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(gameTitle, post), genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		if g.log != nil {
			g.log.Warnw("generation failed", "title", post.Title, "err", err)
		}
		return ""
	}
	return resp.Text()
}

// ReplyAll generates one reply per post and vectorizes each into the
// generated corpus. Posts are processed sequentially to stay inside API
// rate limits; document order matches post order.
func (g *Generator) ReplyAll(ctx context.Context, gameTitle string, posts []scrape.Post) (corpus.Corpus, error) {
	docs := make(corpus.Corpus, 0, len(posts))
	for i, post := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := g.Reply(ctx, gameTitle, post)
		if text == "" && g.log != nil {
			g.log.Warnw("empty reply recorded as zero-count document", "post", i)
		}
		docs = append(docs, corpus.Vectorize(corpus.Clean(text)))
	}
	return docs, nil
}
