// Package converter turns exported HTML posts into Jekyll Markdown files
// with YAML front matter.
package converter

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/goliatone/go-slug"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/blog-migrate/models"
	"github.com/dtnitsch/blog-migrate/pkg/parser"
	"github.com/dtnitsch/blog-migrate/pkg/storage"
)

// LanguageDetector is satisfied by *detector.Detector.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

type Options struct {
	PostsDir string
	// Metadata looks up categories, tags and excerpt for a post id.
	Metadata func(postID string) models.PostMetadata
	// Detector fills the lang front matter key when set.
	Detector LanguageDetector

	Out    io.Writer
	Logger *slog.Logger
}

type Converter struct {
	opts    Options
	parser  *parser.Parser
	md      *md.Converter
	storage *storage.Storage
	out     io.Writer
	logger  *slog.Logger
}

func New(opts Options) *Converter {
	c := &Converter{
		opts:    opts,
		parser:  &parser.Parser{},
		md:      md.NewConverter("", true, &md.Options{HeadingStyle: "atx", CodeBlockStyle: "fenced"}),
		storage: &storage.Storage{},
		out:     opts.Out,
		logger:  opts.Logger,
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if c.opts.Metadata == nil {
		c.opts.Metadata = models.DefaultConfig().MetadataFor
	}
	return c
}

// Run converts every *.html file in exportDir, in name order.
// A file that fails is reported and counted; the rest still run.
func (c *Converter) Run(exportDir string) ([]models.ConvertResult, error) {
	files, err := c.storage.List(exportDir, "*.html")
	if err != nil {
		return nil, err
	}
	if err := c.storage.EnsureDir(c.opts.PostsDir); err != nil {
		return nil, err
	}

	written := make(map[string]string, len(files))
	results := make([]models.ConvertResult, 0, len(files))
	for _, file := range files {
		result, err := c.ConvertFile(file)
		if err != nil {
			c.logger.Error("failed to convert post", "file", file, "error", err)
			fmt.Fprintf(c.out, "  ERROR %s: %s\n", filepath.Base(file), err)
			result.Skipped = true
			result.Reason = err.Error()
		}
		if prev, ok := written[result.OutputPath]; ok && result.OutputPath != "" {
			c.logger.Warn("output file written twice", "output", result.OutputPath, "first", prev, "second", file)
		}
		if result.OutputPath != "" {
			written[result.OutputPath] = file
		}
		results = append(results, result)
	}
	return results, nil
}

// ConvertFile converts one export file. Files whose name carries no post id
// or date are skipped, not failed.
func (c *Converter) ConvertFile(path string) (models.ConvertResult, error) {
	name := filepath.Base(path)
	result := models.ConvertResult{Source: path}

	postID, okID := parser.ExtractPostID(name)
	date, okDate := parser.ExtractDate(name)
	if !okID || !okDate {
		result.Skipped = true
		result.Reason = "could not extract ID or date"
		fmt.Fprintf(c.out, "  Skipping %s: %s\n", name, result.Reason)
		return result, nil
	}
	result.PostID = postID

	raw, err := c.storage.ReadFile(path)
	if err != nil {
		return result, err
	}
	post, err := c.parser.ParseExport(path, string(raw))
	if err != nil {
		return result, err
	}
	result.Title = post.Title

	body, err := c.ToMarkdown(post.BodyHTML)
	if err != nil {
		return result, err
	}

	meta := c.opts.Metadata(postID)
	fm := models.FrontMatter{
		Title:      post.Title,
		Excerpt:    meta.Excerpt,
		Categories: meta.Categories,
		Tags:       meta.Tags,
	}
	if c.opts.Detector != nil {
		if lang, ok := c.opts.Detector.Detect(post.Title + "\n" + body); ok {
			fm.Lang = lang
		}
	}

	doc, err := BuildDocument(fm, body)
	if err != nil {
		return result, err
	}

	outName := fmt.Sprintf("%s-%s.md", date, Slugify(post.Title, postID))
	result.OutputPath = filepath.Join(c.opts.PostsDir, outName)
	if err := c.storage.SaveFile(result.OutputPath, []byte(doc)); err != nil {
		return result, err
	}
	fmt.Fprintf(c.out, "  %s -> %s\n", name, outName)
	return result, nil
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// ToMarkdown converts cleaned body HTML to Markdown with ATX headings and
// fenced code, collapsing runs of blank lines.
func (c *Converter) ToMarkdown(bodyHTML string) (string, error) {
	markdown, err := c.md.ConvertString(bodyHTML)
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}
	markdown = blankLines.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown), nil
}

// RenderFrontMatter encodes fm as YAML between --- fences.
func RenderFrontMatter(fm models.FrontMatter) (string, error) {
	if fm.Categories == nil {
		fm.Categories = []string{}
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	buf.WriteString("---\n")
	return buf.String(), nil
}

// BuildDocument joins front matter and body into the final post file.
func BuildDocument(fm models.FrontMatter, body string) (string, error) {
	header, err := RenderFrontMatter(fm)
	if err != nil {
		return "", err
	}
	return header + "\n" + body + "\n", nil
}

// transliterations holds the letter entries of go-slug's char map. Symbols
// such as "&" are left out so they are dropped rather than spelled out.
var transliterations = loadTransliterations()

func loadTransliterations() map[rune]string {
	charMap, err := slug.GetCharMap()
	if err != nil {
		return nil
	}
	letters := make(map[rune]string, len(charMap))
	for from, to := range charMap {
		r, size := utf8.DecodeRuneInString(from)
		if size != len(from) || !unicode.IsLetter(r) {
			continue
		}
		letters[r] = to
	}
	return letters
}

// Slugify derives the URL slug of a title, falling back when the title has
// nothing usable in it. Accented letters are spelled in ASCII: "Café" -> "cafe".
func Slugify(title, fallback string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if to, ok := transliterations[r]; ok {
			b.WriteString(to)
		} else {
			b.WriteRune(r)
		}
	}
	s, err := slug.Normalize(b.String())
	if err != nil || s == "" {
		return fallback
	}
	return s
}
