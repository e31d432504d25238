package service

import (
	"bytes"
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ErrInvalidMarkdown 表示 Markdown 正文无法渲染。
var ErrInvalidMarkdown = errors.New("content markdown could not be rendered")

const (
	// ContentFormatHTML 表示正文已是富文本 HTML。
	ContentFormatHTML = "html"
	// ContentFormatMarkdown 表示正文以 Markdown 提交，由服务端渲染。
	ContentFormatMarkdown = "markdown"
)

var (
	richPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
	markdown    = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// NormalizeContent 将提交的正文统一为净化后的 HTML。
// format 为 markdown 时先经 goldmark 渲染，再走同一套净化策略。
func NormalizeContent(content, format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", ContentFormatHTML:
		return richPolicy.Sanitize(content), nil
	case ContentFormatMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(content), &buf); err != nil {
			return "", ErrInvalidMarkdown
		}
		return richPolicy.Sanitize(buf.String()), nil
	default:
		return richPolicy.Sanitize(content), nil
	}
}

// DerivePlaintext 从富文本 HTML 派生纯文本镜像，用于搜索与摘要。
func DerivePlaintext(contentHTML string) string {
	stripped := plainPolicy.Sanitize(contentHTML)
	return strings.Join(strings.Fields(html.UnescapeString(stripped)), " ")
}
