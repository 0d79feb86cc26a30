package statement

import "strings"

type tokenKind int

const (
	tokenOpen tokenKind = iota
	tokenClose
	tokenText
)

type token struct {
	kind  tokenKind
	value string
}

// tokenize splits a document into open-tag, close-tag and text tokens.
// Declarations (<?...?>, <!...>) are dropped. Text outside any tag, such as
// the key:value header block of legacy exports, comes through as text tokens
// and is ignored by the record assembler.
func tokenize(data []byte) []token {
	var toks []token
	s := string(data)

	for len(s) > 0 {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			appendText(&toks, s)
			break
		}
		appendText(&toks, s[:lt])
		s = s[lt+1:]

		gt := strings.IndexByte(s, '>')
		if gt < 0 {
			// Dangling "<" at EOF; nothing more to read.
			break
		}
		tag := strings.TrimSpace(s[:gt])
		s = s[gt+1:]

		switch {
		case tag == "":
		case tag[0] == '?' || tag[0] == '!':
		case tag[0] == '/':
			toks = append(toks, token{kind: tokenClose, value: strings.ToUpper(strings.TrimSpace(tag[1:]))})
		default:
			toks = append(toks, token{kind: tokenOpen, value: strings.ToUpper(tag)})
		}
	}
	return toks
}

func appendText(toks *[]token, raw string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return
	}
	*toks = append(*toks, token{kind: tokenText, value: unescape(text)})
}

var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func unescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityReplacer.Replace(s)
}

// sniffVariant inspects the document header to decide which tokenizer rules
// apply. An XML prolog or an OFXHEADER header naming XML data means every tag
// is closed; anything else is treated as the tolerant legacy format.
func sniffVariant(data []byte) Variant {
	head := strings.TrimLeft(string(data[:min(len(data), 512)]), "\uFEFF \t\r\n")
	if strings.HasPrefix(head, "<?xml") {
		return VariantStrict
	}
	upper := strings.ToUpper(head)
	if strings.Contains(upper, "OFXHEADER=") && strings.Contains(upper, `"200`) {
		return VariantStrict
	}
	return VariantLegacy
}
