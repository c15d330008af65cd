package parser

import (
	"bufio"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/blog-migrate/models"
	"github.com/go-shiori/go-readability"
)

const untitled = "Untitled"

type Parser struct{}

// ParseExport pulls the title and cleaned body out of one exported post.
// source is the file the HTML came from; it is only used as the base URL
// when the export has no body section and readability has to guess.
func (p *Parser) ParseExport(source, rawHTML string) (*models.ExportedPost, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	post := &models.ExportedPost{Title: untitled}
	if title := normalizeText(doc.Find("h1.p-name").First().Text()); title != "" {
		post.Title = title
	}

	body := doc.Find(`section[data-field="body"]`).First()
	if body.Length() == 0 {
		post.BodyHTML = p.fallbackBody(source, rawHTML)
		return post, nil
	}

	// The body repeats the title as its first heading.
	body.Find("h3.graf--title").First().Remove()
	body.Find("div.section-divider").Remove()

	body.Find("figure").Each(func(i int, fig *goquery.Selection) {
		if replacement, ok := flattenFigure(fig); ok {
			fig.ReplaceWithHtml(replacement)
		}
	})

	body.Find("pre").Each(func(i int, pre *goquery.Selection) {
		normalizeCodeBlock(pre)
	})

	content, err := body.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to render body: %w", err)
	}
	post.BodyHTML = content
	return post, nil
}

// fallbackBody lets go-readability find the main content. A failure there
// yields an empty body rather than an error; the post is still written.
func (p *Parser) fallbackBody(source, rawHTML string) string {
	base := &url.URL{Scheme: "file", Path: source}
	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(rawHTML), base)
	if err != nil {
		return ""
	}
	return article.Content
}

// flattenFigure turns a figure into an image paragraph followed by an
// emphasised caption paragraph. Figures without an img are left alone.
func flattenFigure(fig *goquery.Selection) (string, bool) {
	img := fig.Find("img").First()
	if img.Length() == 0 {
		return "", false
	}
	src, _ := img.Attr("src")
	alt, _ := img.Attr("alt")

	var b strings.Builder
	fmt.Fprintf(&b, `<p><img src="%s" alt="%s"></p>`, html.EscapeString(src), html.EscapeString(alt))
	if caption := normalizeText(fig.Find("figcaption").First().Text()); caption != "" {
		fmt.Fprintf(&b, `<p><em>%s</em></p>`, html.EscapeString(caption))
	}
	return b.String(), true
}

// normalizeCodeBlock wraps bare pre content in a code element so the
// Markdown converter emits a fenced block, carrying the export's language hint.
func normalizeCodeBlock(pre *goquery.Selection) {
	if pre.Find("code").Length() > 0 {
		return
	}
	lang, _ := pre.Attr("data-code-block-lang")

	inner, err := pre.Html()
	if err != nil {
		return
	}
	// Exports mark line breaks inside code with <br>.
	inner = strings.ReplaceAll(inner, "<br/>", "\n")
	inner = strings.ReplaceAll(inner, "<br>", "\n")

	if lang != "" {
		pre.SetHtml(fmt.Sprintf(`<code class="language-%s">%s</code>`, html.EscapeString(lang), inner))
	} else {
		pre.SetHtml("<code>" + inner + "</code>")
	}
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
