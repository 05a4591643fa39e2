package trends

import (
	"regexp"
	"strings"
	"time"

	"radarbr/internal/domain"
)

// Fixed alternation of named noise patterns. Weather and schedule queries,
// bare day words, lottery draws and generic "news" queries never make good
// articles regardless of volume.
var noiseRe = regexp.MustCompile(strings.Join([]string{
	`(?i)^\s*hoje\b`,
	`(?i)^\s*amanh[ãa]\b`,
	`(?i)^\s*ontem\b`,
	`(?i)^\s*que\s+dia`,
	`(?i)^\s*que\s+horas`,
	`(?i)^\s*(vai\s+chover|chuva|previs[aã]o)\b`,
	`(?i)^\s*(tem\s+jogo|jogo\s+d[oae]|resultado\s+do\s+jogo)\b`,
	`(?i)^\s*not[ií]cias(\s+de\s+hoje)?\s*$`,
	`(?i)\btempo\s+agora\b`,
	`(?i)\bfases\s+da\s+lua\b`,
	`(?i)\bresultado\s+da\s+lotof[áa]cil\b`,
	// \b is ASCII-only in RE2 and would match inside "máquina"; anchor on
	// whitespace instead.
	`(?i)(^|\s)quina(\s|$)`,
	`(?i)\bmega-sena\b`,
}, "|"))

var spaceRe = regexp.MustCompile(`\s+`)

// Clean trims the term and collapses internal whitespace runs.
func Clean(term string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(term), " ")
}

// IsNoisy reports whether a term should be dropped. Terms of length <= 3
// are rejected unconditionally.
func IsNoisy(term string) bool {
	t := Clean(term)
	if len(t) <= 3 {
		return true
	}
	return noiseRe.MatchString(t)
}

// Normalize cleans, filters and deduplicates raw topics, preserving
// first-seen order, and caps the result at limit. It is idempotent.
func Normalize(topics []domain.Topic, limit int) []domain.Topic {
	if limit <= 0 {
		return nil
	}

	seen := map[string]struct{}{}
	out := make([]domain.Topic, 0, limit)
	for _, t := range topics {
		cleaned := Clean(t.Raw)
		if IsNoisy(cleaned) {
			continue
		}
		key := strings.ToLower(cleaned)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		t.Raw = cleaned
		t.Normalized = key
		if t.DiscoveredAt.IsZero() {
			t.DiscoveredAt = time.Now()
		}
		out = append(out, t)
		if len(out) >= limit {
			break
		}
	}
	return out
}
