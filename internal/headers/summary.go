package headers

import (
	"bufio"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func init() {
	// Register additional charsets that are commonly used in emails
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

// Summarize reads the header block of a message and reports the fields
// the UI displays. Text without a blank line is treated as headers only.
func Summarize(text string) (*Summary, error) {
	block := extractRawHeaders(strings.ReplaceAll(text, "\r\n", "\n"))
	block = strings.TrimLeft(block, "\n")
	if block == "" {
		return &Summary{}, nil
	}

	h, err := textproto.ReadHeader(bufio.NewReader(strings.NewReader(block + "\n\n")))
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	header := mail.Header{Header: message.Header{Header: h}}
	summary := &Summary{
		From:      decodeField(&header, "From"),
		MessageID: strings.TrimSpace(header.Get("Message-Id")),
	}

	// Subject - decode MIME words and charsets
	if subject, err := header.Subject(); err == nil {
		summary.Subject = subject
	} else {
		summary.Subject = header.Get("Subject")
	}

	// To
	if toAddrs, err := header.AddressList("To"); err == nil {
		for _, addr := range toAddrs {
			summary.To = append(summary.To, addr.Address)
		}
	} else if raw := strings.TrimSpace(header.Get("To")); raw != "" {
		summary.To = []string{raw}
	}

	fields := h.Fields()
	for fields.Next() {
		summary.Fields++
	}

	return summary, nil
}

// DecodeText turns uploaded bytes into valid UTF-8. A UTF-8 or UTF-16 byte
// order mark selects the source encoding; invalid sequences become U+FFFD.
func DecodeText(b []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}

// Snippet returns the first n runes of text followed by "...".
func Snippet(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text + "..."
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}

// decodeField returns the RFC 2047 decoded value, or the raw one if decoding fails
func decodeField(h *mail.Header, key string) string {
	if v, err := h.Text(key); err == nil {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(h.Get(key))
}

// extractRawHeaders extracts the raw header section from the email
func extractRawHeaders(emailContent string) string {
	// Headers end at the first blank line
	header, _, _ := strings.Cut(emailContent, "\n\n")
	return header
}
