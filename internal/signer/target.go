package signer

import (
	"fmt"
	"net/url"
	"strings"
)

const upperHex = "0123456789ABCDEF"

// requestTarget возвращает путь вместе со строкой запроса так, как их
// сериализует браузерный парсер URL (pathname + search): сегменты "." и ".."
// удалены, недопустимые символы закодированы в %XX.
func requestTarget(fullURL string) (string, error) {
	u, err := url.Parse(fullURL)
	if err != nil {
		return "", fmt.Errorf("%w: parsing url: %v", ErrInvalidInput, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: url %q is not absolute", ErrInvalidInput, fullURL)
	}

	rawPath, rawQuery := splitTarget(fullURL)

	if isSpecialScheme(u.Scheme) {
		rawPath = strings.ReplaceAll(rawPath, `\`, "/")
	}
	if rawPath == "" {
		rawPath = "/"
	}

	path := removeDotSegments(percentEncode(rawPath, inPathSet))
	if rawQuery == "" {
		return path, nil
	}
	return path + "?" + percentEncode(rawQuery, inQuerySet), nil
}

// splitTarget выделяет из абсолютного URL сырые путь и строку запроса без фрагмента.
func splitTarget(fullURL string) (rawPath, rawQuery string) {
	rest, _, _ := strings.Cut(fullURL, "#")

	if i := strings.Index(rest, "//"); i >= 0 {
		rest = rest[i+2:]
	}
	if i := strings.IndexAny(rest, `/?\`); i >= 0 {
		rest = rest[i:]
	} else {
		return "", ""
	}

	rawPath, rawQuery, _ = strings.Cut(rest, "?")
	return rawPath, rawQuery
}

func isSpecialScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https", "ws", "wss", "ftp":
		return true
	}
	return false
}

// removeDotSegments убирает сегменты "." и ".." (в том числе в виде %2e).
// Пустые сегменты сохраняются: "/a//b" остается как есть.
func removeDotSegments(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	out := make([]string, 0, len(segments))

	for i, seg := range segments {
		last := i == len(segments)-1
		switch {
		case isDoubleDot(seg):
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			if last {
				out = append(out, "")
			}
		case isSingleDot(seg):
			if last {
				out = append(out, "")
			}
		default:
			out = append(out, seg)
		}
	}

	return "/" + strings.Join(out, "/")
}

func isSingleDot(seg string) bool {
	return seg == "." || strings.EqualFold(seg, "%2e")
}

func isDoubleDot(seg string) bool {
	switch strings.ToLower(seg) {
	case "..", ".%2e", "%2e.", "%2e%2e":
		return true
	}
	return false
}

func isControlOrNonASCII(b byte) bool {
	return b < 0x20 || b > 0x7e
}

func inPathSet(b byte) bool {
	switch b {
	case ' ', '"', '#', '<', '>', '?', '`', '{', '}':
		return true
	}
	return isControlOrNonASCII(b)
}

func inQuerySet(b byte) bool {
	switch b {
	case ' ', '"', '#', '<', '>', '\'':
		return true
	}
	return isControlOrNonASCII(b)
}

// percentEncode кодирует байты из набора set. Уже закодированные
// последовательности %XX не трогает.
func percentEncode(s string, set func(byte) bool) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if set(c) {
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
