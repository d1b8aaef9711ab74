package mailbox

import (
	"net/mail"
	"regexp"
	"strings"
)

var angleAddressPattern = regexp.MustCompile(`<([^<>\s]+@[^<>\s]+)>`)

// ParseSenderAddress 从 From 头解析发件人邮箱，统一小写，无法解析时返回空
func ParseSenderAddress(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(header); err == nil {
		return strings.ToLower(strings.TrimSpace(addr.Address))
	}
	if match := angleAddressPattern.FindStringSubmatch(header); len(match) == 2 {
		return strings.ToLower(match[1])
	}
	if !strings.ContainsAny(header, " <>") && strings.Count(header, "@") == 1 {
		return strings.ToLower(header)
	}
	return ""
}

func trimBody(body string) string {
	return strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
}
