// Package category routes a topic to a category tag by keyword match.
// Order matters: the first rule that matches wins; fallback is "general".
package category

import "regexp"

// Tags the router can produce. The content store owns the canonical set;
// these are the ones synthesis and image selection key on.
const (
	Technology    = "technology"
	Economy       = "economy"
	Politics      = "politics"
	Sports        = "sports"
	Health        = "health"
	Environment   = "environment"
	Entertainment = "entertainment"
	Education     = "education"
	Culture       = "culture"
	General       = "general"
)

type rule struct {
	tag string
	re  *regexp.Regexp
}

var rules = []rule{
	{Sports, regexp.MustCompile(`(?i)\b(brasileir[aã]o|s[ée]rie\s+[abcd]|libertadores|copa( do (brasil|mundo))?|mundial|futebol|flamengo|gr[êe]mio|palmeiras|corinthians|sele[çc][aã]o|olimp[ií]adas?|estádio|neymar|jogador)\b`)},
	{Economy, regexp.MustCompile(`(?i)\b(d[óo]lar|juros|selic|infla[çc][aã]o|pib|bolsa de valores|bovespa|emprego|imposto|irpf|sal[aá]rio m[ií]nimo|aux[ií]lio|dividendos|mercado|investimento)\b`)},
	{Technology, regexp.MustCompile(`(?i)\b(whatsapp|iphone|android|instagram|facebook|tiktok|google|apple|microsoft|intel|nvidia|chatgpt|intelig[eê]ncia artificial|apps?|smartphone|internet|tecnologia)\b`)},
	{Health, regexp.MustCompile(`(?i)\b(dengue|covid|gripe|vacina|sus|sa[úu]de|hospital|medicina|m[ée]dicos?|tratamento)\b`)},
	{Environment, regexp.MustCompile(`(?i)\b(meio ambiente|clima|natureza|queimadas?|desmatamento|sustentabilidade|energia (solar|e[óo]lica)|amaz[ôo]nia)\b`)},
	{Politics, regexp.MustCompile(`(?i)\b(elei[çc][õo]es?|pol[ií]tica|governo|presidente|ministro|congresso|senado|c[âa]mara|stf|tse|governador|prefeito|vota[çc][aã]o)\b`)},
	{Entertainment, regexp.MustCompile(`(?i)\b(bbb|novela|s[ée]ries?|filmes?|cinema|celebridades?|shows?|turn[eê]|oscar|festival|cantora?|anitta)\b`)},
	{Education, regexp.MustCompile(`(?i)\b(educa[çc][aã]o|escolas?|universidades?|enem|vestibular|professor(es|a)?|estudantes?|ensino)\b`)},
	{Culture, regexp.MustCompile(`(?i)\b(cultura|arte|museus?|teatro|literatura|hist[óo]ria|tradi[çc][aã]o|patrim[ôo]nio)\b`)},
}

// ForTopic maps a topic phrase to its category tag.
func ForTopic(topic string) string {
	if topic == "" {
		return General
	}
	for _, r := range rules {
		if r.re.MatchString(topic) {
			return r.tag
		}
	}
	return General
}

// All lists every tag, placeholder assets and report buckets included.
func All() []string {
	return []string{
		Technology, Economy, Politics, Sports, Health,
		Environment, Entertainment, Education, Culture, General,
	}
}
