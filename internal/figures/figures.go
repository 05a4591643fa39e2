// Package figures holds the fixed public-figure directory used by the
// image resolver and the AI prompt builder.
package figures

import "strings"

// Figure is one known public person.
type Figure struct {
	Key      string
	Names    []string
	Handle   string
	Category string
	Prompt   string
}

var directory = []Figure{
	{Key: "lula", Names: []string{"lula da silva", "luiz inácio lula da silva", "luiz inacio lula da silva", "lula"}, Handle: "@lulaoficial", Category: "politician", Prompt: "Brazilian politician in formal attire"},
	{Key: "bolsonaro", Names: []string{"jair bolsonaro", "jair messias bolsonaro", "bolsonaro"}, Handle: "@jairbolsonaro", Category: "politician", Prompt: "Brazilian politician in formal attire"},
	{Key: "marina silva", Names: []string{"marina silva", "marina da silva"}, Handle: "@marinasilva", Category: "politician", Prompt: "Brazilian politician in formal attire"},
	{Key: "ciro gomes", Names: []string{"ciro ferreira gomes", "ciro gomes"}, Handle: "@cirogomes", Category: "politician", Prompt: "Brazilian politician in formal attire"},
	{Key: "doria", Names: []string{"joão doria", "joao doria", "doria"}, Handle: "@joaodoria", Category: "politician", Prompt: "Brazilian politician in formal attire"},
	{Key: "anitta", Names: []string{"anitta"}, Handle: "@anitta", Category: "celebrity", Prompt: "Brazilian singer and celebrity"},
	{Key: "luciano huck", Names: []string{"luciano huck"}, Handle: "@lucianohuck", Category: "presenter", Prompt: "Brazilian TV presenter"},
	{Key: "faustão", Names: []string{"faustão", "fausto silva"}, Handle: "@faustao", Category: "presenter", Prompt: "Brazilian TV presenter"},
	{Key: "silvio santos", Names: []string{"silvio santos", "senor abravanel"}, Handle: "@silviosantos", Category: "businessman", Prompt: "Brazilian businessman and TV host"},
	{Key: "neymar", Names: []string{"neymar jr", "neymar"}, Handle: "@neymarjr", Category: "athlete", Prompt: "Brazilian football player in sports attire"},
	{Key: "ronaldinho", Names: []string{"ronaldinho gaúcho", "ronaldinho"}, Handle: "@ronaldinho", Category: "athlete", Prompt: "Brazilian football player in sports attire"},
	{Key: "romário", Names: []string{"romário", "romario"}, Handle: "@romariofaria", Category: "athlete", Prompt: "Brazilian football player in sports attire"},
	{Key: "pelé", Names: []string{"pelé", "pele", "edson arantes"}, Handle: "@pele", Category: "athlete", Prompt: "Brazilian football legend in sports attire"},
	{Key: "elon musk", Names: []string{"elon musk"}, Handle: "@elonmusk", Category: "businessman", Prompt: "international tech businessman"},
	{Key: "taylor swift", Names: []string{"taylor swift"}, Handle: "@taylorswift", Category: "celebrity", Prompt: "international pop star on stage"},
	{Key: "katy perry", Names: []string{"katy perry"}, Handle: "@katyperry", Category: "celebrity", Prompt: "international pop star on stage"},
}

// Detect scans free text for a known figure. Longer name variants are
// listed first inside each entry so "marina silva" wins over "silva".
func Detect(text string) (Figure, bool) {
	t := strings.ToLower(text)
	for _, f := range directory {
		for _, name := range f.Names {
			if strings.Contains(t, name) {
				return f, true
			}
		}
	}
	return Figure{}, false
}
