package meta

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Prefix returns the namespace prefix for an unprefixed property key.
func Prefix(key string) string {
	switch key {
	case KeyAdmins, KeyAppID:
		return "fb:"
	}
	return "og:"
}

// Emit returns one <meta> line per non-empty entry of rec, in record order.
func Emit(rec Record) []string {
	var lines []string
	for _, key := range rec.keys {
		value := rec.values[key]
		if value == "" {
			continue
		}
		content := EscapeAttr(value)
		if key == KeyURL {
			content = EscapeURL(value)
		}
		if content == "" {
			continue
		}
		lines = append(lines, `<meta property="`+EscapeAttr(Prefix(key)+key)+`" content="`+content+`">`)
	}
	return lines
}

// Tags returns a templ.Component that writes the emitted lines of rec,
// each followed by a newline.
func Tags(rec Record) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, line := range Emit(rec) {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// EscapeAttr escapes s for use inside a double-quoted HTML attribute.
func EscapeAttr(s string) string {
	return templ.EscapeString(s)
}

// EscapeURL cleans s with CleanURL and encodes it for an HTML attribute.
func EscapeURL(s string) string {
	u := CleanURL(s)
	if u == "" {
		return ""
	}
	return strings.NewReplacer("&", "&#038;", "'", "&#039;").Replace(u)
}

var allowedSchemes = map[string]bool{
	"http": true, "https": true, "ftp": true, "ftps": true, "mailto": true,
	"news": true, "irc": true, "gopher": true, "nntp": true, "feed": true,
	"telnet": true, "mms": true, "rtsp": true, "sms": true, "svn": true,
	"tel": true, "fax": true, "xmpp": true, "webcal": true, "urn": true,
}

// CleanURL drops characters that are not valid in a URL, encodes spaces and
// rejects unknown schemes. A value without a scheme that does not start
// with '/', '#' or '?' is treated as an http URL. The result is "" when
// nothing usable remains.
func CleanURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, " ", "%20")

	var b strings.Builder
	for _, r := range s {
		if urlRune(r) {
			b.WriteRune(r)
		}
	}
	s = b.String()
	for _, bad := range []string{"%0d", "%0a", "%0D", "%0A", "%00"} {
		for strings.Contains(s, bad) {
			s = strings.ReplaceAll(s, bad, "")
		}
	}
	if s == "" {
		return ""
	}

	scheme, _, hasScheme := strings.Cut(s, ":")
	if hasScheme && strings.ContainsAny(scheme, "/?#") {
		hasScheme = false
	}
	if !hasScheme {
		if strings.ContainsRune("/#?", rune(s[0])) {
			return s
		}
		return "http://" + s
	}
	if !allowedSchemes[strings.ToLower(scheme)] {
		return ""
	}
	return s
}

func urlRune(r rune) bool {
	switch {
	case r >= 0x80:
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-~+_.?#=!&;,/:%@$|*'()[]", r)
}
