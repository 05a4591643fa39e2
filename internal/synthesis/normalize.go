package synthesis

import (
	"regexp"
	"strings"
)

// cannedSections is inserted after the dek when the body carries fewer
// than two H2 sections.
const cannedSections = "\n<h2>Contexto e Principais Pontos</h2>\n" +
	"<p>Entenda os elementos centrais deste tema com fatos e informações relevantes para o leitor brasileiro.</p>\n" +
	"<h2>Desdobramentos e Impactos</h2>\n" +
	"<p>Exploramos os efeitos práticos, reações e possíveis próximos passos relacionados ao assunto.</p>\n"

// EnsureSections guarantees at least two H2 sections, inserting the canned
// block right after the first closing paragraph.
func EnsureSections(body string) string {
	if strings.Count(strings.ToLower(body), "<h2") >= 2 {
		return body
	}
	insertAt := strings.Index(strings.ToLower(body), "</p>")
	if insertAt == -1 {
		insertAt = 0
	} else {
		insertAt += len("</p>")
	}
	return body[:insertAt] + cannedSections + body[insertAt:]
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// WordCount counts words after stripping markup.
func WordCount(body string) int {
	return len(strings.Fields(htmlTagRe.ReplaceAllString(body, " ")))
}
