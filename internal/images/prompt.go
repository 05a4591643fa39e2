package images

import (
	"regexp"
	"strings"

	"radarbr/internal/figures"
)

const (
	promptStyleSuffix = "professional photography, high quality, realistic, Brazilian context"
	maxPromptLen      = 1000
	maxTitleTokens    = 8
)

// promptStopWords are fillers with no visual value.
var promptStopWords = map[string]struct{}{
	"notícia": {}, "noticia": {}, "últimas": {}, "ultimas": {},
	"hoje": {}, "ontem": {}, "amanhã": {}, "amanha": {},
	"brasil": {}, "brasileiro": {}, "brasileira": {}, "nacional": {}, "mundial": {},
	"anuncia": {}, "anunciou": {}, "confirma": {}, "confirmou": {},
	"divulga": {}, "divulgou": {}, "aprova": {}, "aprovou": {},
	"rejeita": {}, "rejeitou": {}, "cancela": {}, "cancelou": {},
}

var basePrompts = map[string]string{
	"economy":       "Professional business scene with charts, graphs, and financial elements",
	"politics":      "Political scene with government buildings, flags, and official elements",
	"sports":        "Dynamic sports scene with athletes, stadium, and sporting equipment",
	"technology":    "Modern technology scene with computers, smartphones, and digital elements",
	"health":        "Healthcare scene with medical equipment, doctors, and hospital elements",
	"environment":   "Natural environment scene with trees, nature, and environmental elements",
	"entertainment": "Entertainment scene with celebrities, stage, and show elements",
	"education":     "Educational scene with students, teachers, and school elements",
	"culture":       "Cultural scene with art, museums, and cultural elements",
	"general":       "Professional news scene with relevant elements",
}

// domainProps map topic keywords to concrete scene props.
var domainProps = []struct {
	keyword string
	prop    string
}{
	{"dividendos", "financial charts and money symbols"},
	{"inflação", "inflation charts and economic indicators"},
	{"dólar", "dollar symbols and currency exchange"},
	{"eleições", "voting booths and election materials"},
	{"copa", "football stadium and World Cup elements"},
	{"covid", "medical equipment and vaccination elements"},
	{"vacina", "medical equipment and vaccination elements"},
	{"energia", "energy sources and power plants"},
	{"meio ambiente", "nature and environmental protection"},
}

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// BuildPrompt assembles the generation prompt: base scene by category,
// specific elements from figures and keywords, then the style suffix. The
// result is capped at 1000 characters.
func BuildPrompt(title, category string) string {
	clean := cleanTitleForPrompt(title)

	base, ok := basePrompts[category]
	if !ok {
		base = basePrompts["general"]
	}

	parts := []string{base, specificElements(clean)}
	prompt := strings.Join(parts, ", ") + ", " + promptStyleSuffix

	if len(prompt) > maxPromptLen {
		prompt = prompt[:maxPromptLen]
	}
	return prompt
}

// cleanTitleForPrompt lowercases, strips punctuation, drops stop words and
// short tokens, and keeps at most eight words.
func cleanTitleForPrompt(title string) string {
	clean := nonWordRe.ReplaceAllString(strings.ToLower(title), " ")
	words := strings.Fields(clean)

	kept := make([]string, 0, maxTitleTokens)
	for _, w := range words {
		if _, stop := promptStopWords[w]; stop {
			continue
		}
		if len([]rune(w)) <= 2 {
			continue
		}
		kept = append(kept, w)
		if len(kept) == maxTitleTokens {
			break
		}
	}
	return strings.Join(kept, " ")
}

func specificElements(cleanTitle string) string {
	var elements []string

	if figure, ok := figures.Detect(cleanTitle); ok {
		elements = append(elements, figure.Prompt)
	}

	for _, d := range domainProps {
		if strings.Contains(cleanTitle, d.keyword) {
			elements = append(elements, d.prop)
			break
		}
	}

	if len(elements) == 0 {
		return "relevant news elements"
	}
	return strings.Join(elements, ", ")
}
