package identity

import "strings"

type Kind int

const (
	KindUnknown Kind = iota
	KindEmail
	KindPhone
	KindUsername
)

// NormalizeEmail — нижний регистр, без пробелов по краям
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone приводит номер к каноническому виду "+7XXXXXXXXXX".
// Принимаем частые написания: 8 (XXX) XXX-XX-XX, 7XXXXXXXXXX, +7 XXX ...
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
		// скобки, дефисы, пробелы — выбрасываем
	}
	p := b.String()
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "+") {
		return p
	}
	// национальные префиксы: 8XXXXXXXXXX и 7XXXXXXXXXX -> +7XXXXXXXXXX
	if len(p) == 11 && (p[0] == '8' || p[0] == '7') {
		return "+7" + p[1:]
	}
	return "+" + p
}

func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Classify — по какому полю искать аккаунт. Порядок проверки фиксированный:
// email, потом телефон, потом username (см. lookup в user_service).
func Classify(identity string) Kind {
	s := strings.TrimSpace(identity)
	if s == "" {
		return KindUnknown
	}
	if strings.Contains(s, "@") {
		return KindEmail
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	// телефон: почти все символы — цифры (плюс разделители)
	if digits >= 7 && digits >= len(s)-6 {
		return KindPhone
	}
	return KindUsername
}
