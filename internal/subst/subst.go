// Package subst fills placeholder tokens in text templates.
package subst

import "strings"

// Replacer substitutes literal placeholders in a template.
type Replacer struct {
	text string
}

// New returns a Replacer over template.
func New(template string) *Replacer {
	return &Replacer{text: template}
}

// Replace substitutes every occurrence of placeholder with value.
func (r *Replacer) Replace(placeholder, value string) *Replacer {
	if placeholder == "" {
		return r
	}
	r.text = strings.ReplaceAll(r.text, placeholder, value)
	return r
}

// ReplaceAll applies placeholder, value pairs in a single pass; inserted
// values are not scanned for further placeholders.
func (r *Replacer) ReplaceAll(pairs ...string) *Replacer {
	if len(pairs)%2 != 0 {
		panic("subst: odd number of placeholder/value arguments")
	}
	r.text = strings.NewReplacer(pairs...).Replace(r.text)
	return r
}

func (r *Replacer) String() string {
	return r.text
}
