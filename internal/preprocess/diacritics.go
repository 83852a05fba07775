package preprocess

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// cedillaToComma rewrites the legacy cedilla letters (U+015E/F, U+0162/3)
// to the comma-below forms (U+0218/9, U+021A/B). Every other rune is kept.
var cedillaToComma = runes.Map(func(r rune) rune {
	switch r {
	case 'ş':
		return 'ș'
	case 'Ş':
		return 'Ș'
	case 'ţ':
		return 'ț'
	case 'Ţ':
		return 'Ț'
	}
	return r
})

var commaToCedilla = runes.Map(func(r rune) rune {
	switch r {
	case 'ș':
		return 'ş'
	case 'Ș':
		return 'Ş'
	case 'ț':
		return 'ţ'
	case 'Ț':
		return 'Ţ'
	}
	return r
})

// NormalizeDiacritics maps ş/Ş/ţ/Ţ to ș/Ș/ț/Ț. It is idempotent.
func NormalizeDiacritics(text string) string {
	return mapRunes(cedillaToComma, text)
}

func toCedilla(text string) string {
	return mapRunes(commaToCedilla, text)
}

func mapRunes(t transform.Transformer, text string) string {
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}
