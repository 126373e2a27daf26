package request

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// StatusError is returned by Error for a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (err *StatusError) Error() string {
	if err.Body == "" {
		return fmt.Sprintf("http status code %d", err.StatusCode)
	}
	return fmt.Sprintf("http status code %d: %s", err.StatusCode, err.Body)
}

// Error checks the given http response for an error code, and, if one is
// present, reads (a bounded amount of) the body and returns a StatusError.
func Error(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bs, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(bs)),
	}
}

// Text parses s as an HTML fragment and returns its text content, with
// <br> and block elements turned into line breaks and runs of blank lines
// collapsed. Strings without markup come back trimmed.
func Text(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	doc.Find("br").Each(func(_ int, sel *goquery.Selection) {
		sel.ReplaceWithNodes(newline())
	})
	doc.Find("p, div, li").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendNodes(newline())
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" && (len(lines) == 0 || lines[len(lines)-1] == "") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func newline() *html.Node {
	return &html.Node{Type: html.TextNode, Data: "\n"}
}
