package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// GetText returns the concatenated text of every text node under node, it
// behaves like the DOM's textContent.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText trims the text and collapses runs of whitespace into a single space.
func CleanText(text string) string {
	text = strings.TrimSpace(text)
	return innerWhitespace.ReplaceAllString(text, " ")
}

var nonDigits = regexp.MustCompile(`\D`)

// Digits strips every character that is not an ascii digit.
func Digits(text string) string {
	return nonDigits.ReplaceAllString(text, "")
}
