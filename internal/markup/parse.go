package markup

import (
	"html"
	"strings"
)

// Segment is a run of label text sharing the same styling.
type Segment struct {
	Text      string
	Underline bool
	Small     bool
	Font      string
}

type parseState struct {
	underline int
	small     int
	fonts     []string
	stack     []string
}

func (p *parseState) segment(text string) Segment {
	seg := Segment{
		Text:      html.UnescapeString(text),
		Underline: p.underline > 0,
		Small:     p.small > 0,
	}
	if n := len(p.fonts); n > 0 {
		seg.Font = p.fonts[n-1]
	}
	return seg
}

func (p *parseState) open(tag string) {
	name, attrs, _ := strings.Cut(tag, " ")
	switch name {
	case "u":
		p.underline++
	case "small", "sub":
		p.small++
	case "span":
		p.fonts = append(p.fonts, attrValue(attrs, "font_family"))
	}
	p.stack = append(p.stack, name)
}

func (p *parseState) close(name string) {
	// Tags close in order; a stray closer is ignored.
	if n := len(p.stack); n == 0 || p.stack[n-1] != name {
		return
	}
	p.stack = p.stack[:len(p.stack)-1]
	switch name {
	case "u":
		p.underline--
	case "small", "sub":
		p.small--
	case "span":
		p.fonts = p.fonts[:len(p.fonts)-1]
	}
}

// Parse splits markup into styled segments with entities unescaped.
// Unknown tags are dropped and adjacent text with equal styling is merged.
func Parse(markup string) []Segment {
	var (
		state parseState
		out   []Segment
	)
	emit := func(text string) {
		if text == "" {
			return
		}
		seg := state.segment(text)
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Underline == seg.Underline && last.Small == seg.Small && last.Font == seg.Font {
				last.Text += seg.Text
				return
			}
		}
		out = append(out, seg)
	}

	rest := markup
	for rest != "" {
		lt := strings.IndexByte(rest, '<')
		if lt < 0 {
			emit(rest)
			break
		}
		emit(rest[:lt])
		gt := strings.IndexByte(rest[lt:], '>')
		if gt < 0 {
			// Unterminated tag; treat the remainder as text.
			emit(rest[lt:])
			break
		}
		tag := rest[lt+1 : lt+gt]
		if strings.HasPrefix(tag, "/") {
			state.close(strings.TrimSpace(tag[1:]))
		} else {
			state.open(strings.TrimSpace(tag))
		}
		rest = rest[lt+gt+1:]
	}
	return out
}

// Text strips all markup and returns the unescaped label text.
func Text(markup string) string {
	var b strings.Builder
	for _, seg := range Parse(markup) {
		b.WriteString(seg.Text)
	}
	return b.String()
}

func attrValue(attrs, key string) string {
	idx := strings.Index(attrs, key+`="`)
	if idx < 0 {
		return ""
	}
	value := attrs[idx+len(key)+2:]
	end := strings.IndexByte(value, '"')
	if end < 0 {
		return ""
	}
	return value[:end]
}
