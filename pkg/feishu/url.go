package feishu

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidURL is returned when a URL does not reference a docx document.
var ErrInvalidURL = errors.New("invalid Feishu document URL")

// Matches the document id segment of links like:
// https://example.feishu.cn/docx/G6bldPfBQo7nZ7xM3urcKtCPn5c
// https://example.larksuite.com/docx/G6bldPfBQo7nZ7xM3urcKtCPn5c?from=from_copylink
var documentIDPattern = regexp.MustCompile(`^https?://[^/]+/docx/([A-Za-z0-9]+)(?:[/?#]|$)`)

// ExtractDocumentID extracts the document id from a docx share link.
func ExtractDocumentID(documentURL string) (string, error) {
	matches := documentIDPattern.FindStringSubmatch(documentURL)
	if len(matches) < 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, documentURL)
	}
	return matches[1], nil
}
