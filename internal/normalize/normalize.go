// Package normalize turns the multi-valued skills cell into one row per skill.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/amishk599/skillmap/internal/model"
)

// SplitSkills splits a raw skills cell on commas, trims whitespace and drops
// empty tokens. Order and duplicates are preserved.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Key is the grouping form of a skill token.
func Key(token string) string {
	return strings.ToLower(token)
}

// Display returns the title-cased form of a skill key. Every run of letters
// is cased on its own, so "node.js" becomes "Node.Js" and "3d" becomes "3D".
func Display(key string) string {
	// Casers carry state and are not safe to share.
	caser := cases.Title(language.English)
	var sb strings.Builder
	sb.Grow(len(key))
	start := -1
	for i := 0; i < len(key); {
		r, size := utf8.DecodeRuneInString(key[i:])
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
		} else {
			if start >= 0 {
				sb.WriteString(caser.String(key[start:i]))
				start = -1
			}
			sb.WriteString(key[i : i+size])
		}
		i += size
	}
	if start >= 0 {
		sb.WriteString(caser.String(key[start:]))
	}
	return sb.String()
}

// Explode returns one SkillRow per skill token of every record. Records with
// a NULL or blank skills cell contribute nothing.
func Explode(recs []model.JobRecord) []model.SkillRow {
	display := make(map[string]string)
	var rows []model.SkillRow
	for _, r := range recs {
		if r.SkillsNull {
			continue
		}
		for _, tok := range SplitSkills(r.Skills) {
			k := Key(tok)
			d, ok := display[k]
			if !ok {
				d = Display(k)
				display[k] = d
			}
			rows = append(rows, model.SkillRow{
				Title:   r.Title,
				City:    r.City,
				Key:     k,
				Display: d,
			})
		}
	}
	return rows
}
