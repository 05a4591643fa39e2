// Package images resolves one illustration per topic through an ordered
// chain of strategies. The chain never fails: the terminal placeholder
// strategy always produces an attachment.
package images

import (
	"context"
	"log/slog"
	"regexp"

	"radarbr/internal/domain"
	"radarbr/internal/ports"
)

// Strategy is one way of obtaining an image for a topic. A false return
// means the next strategy in the chain should try.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, topic domain.Topic, category string) (domain.ImageAttachment, bool)
}

// DefaultOrder is the chain walked when no override is configured.
var DefaultOrder = []string{
	"figure_profile",
	"scraped_origin",
	"stock",
	"ai_generated",
	"placeholder",
}

// Resolver walks a strategy chain and returns the first hit.
type Resolver struct {
	chain  []Strategy
	logger *slog.Logger
}

var _ ports.ImageResolver = (*Resolver)(nil)

// NewResolver builds the resolver from an explicit chain. The caller is
// expected to end the chain with a strategy that cannot miss.
func NewResolver(chain []Strategy, logger *slog.Logger) *Resolver {
	return &Resolver{chain: chain, logger: logger}
}

// BuildChain orders the available strategies by name. Unknown names are
// skipped; the placeholder is appended when the order leaves it out so the
// chain stays total.
func BuildChain(order []string, available map[string]Strategy) []Strategy {
	if len(order) == 0 {
		order = DefaultOrder
	}
	chain := make([]Strategy, 0, len(order))
	sawPlaceholder := false
	for _, name := range order {
		s, ok := available[name]
		if !ok {
			continue
		}
		chain = append(chain, s)
		if name == "placeholder" {
			sawPlaceholder = true
		}
	}
	if !sawPlaceholder {
		if s, ok := available["placeholder"]; ok {
			chain = append(chain, s)
		}
	}
	return chain
}

// Resolve walks the chain and returns the first attachment produced.
func (r *Resolver) Resolve(ctx context.Context, topic domain.Topic, category string) domain.ImageAttachment {
	for _, s := range r.chain {
		if ctx.Err() != nil {
			break
		}
		att, ok := s.Resolve(ctx, topic, category)
		if !ok {
			r.debug("strategy missed", "strategy", s.Name(), "topic", topic.Normalized)
			continue
		}
		r.debug("strategy hit", "strategy", s.Name(), "topic", topic.Normalized, "origin", string(att.Origin))
		return sanitizeCredit(att)
	}
	// Reached only with an empty or exhausted chain.
	return placeholderAttachment(topic, category)
}

func (r *Resolver) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

const freeImageCredit = "Imagem: banco de imagens gratuito"

var socialURLRe = regexp.MustCompile(`https?://(?:www\.)?(?:instagram|facebook|twitter|x|tiktok)\.com/\S*`)

// sanitizeCredit rewrites credits that embed a social-profile URL. Handles
// without a URL (e.g. "@perfil") stay untouched.
func sanitizeCredit(att domain.ImageAttachment) domain.ImageAttachment {
	if socialURLRe.MatchString(att.Credit) {
		att.Credit = freeImageCredit
	}
	return att
}
