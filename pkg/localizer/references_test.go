package localizer

import (
	"reflect"
	"testing"
)

const testCDN = "https://cdn-images-1.medium.com"

func TestExtractIdentifiers(t *testing.T) {
	refs := NewReferences(testCDN)
	content := "![a](https://cdn-images-1.medium.com/max/800/1*abc.png)\n" +
		"![b](https://cdn-images-1.medium.com/max/1024/0*def)\n" +
		"again ![a](https://cdn-images-1.medium.com/max/1200/1*abc.png)\n" +
		"other host https://example.com/max/800/nope.png\n" +
		"<img src=\"https://cdn-images-1.medium.com/max/600/2*ghi.gif\" />\n"

	got := refs.ExtractIdentifiers(content)
	want := []string{"1*abc.png", "0*def", "2*ghi.gif"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractIdentifiers() = %q, want %q", got, want)
	}
}

func TestExtractIdentifiers_None(t *testing.T) {
	refs := NewReferences(testCDN)
	if got := refs.ExtractIdentifiers("no images here"); len(got) != 0 {
		t.Errorf("ExtractIdentifiers() = %v, want empty", got)
	}
}

func TestDownloadURL(t *testing.T) {
	refs := NewReferences(testCDN + "/")
	got := refs.DownloadURL("1*abc.png", 1200)
	want := "https://cdn-images-1.medium.com/max/1200/1*abc.png"
	if got != want {
		t.Errorf("DownloadURL() = %q, want %q", got, want)
	}
}

func TestRewrite_OnlyKnownIdentifiers(t *testing.T) {
	refs := NewReferences(testCDN)
	content := "![a](https://cdn-images-1.medium.com/max/800/known.png) " +
		"![b](https://cdn-images-1.medium.com/max/800/unknown.png) " +
		"![c](https://cdn-images-1.medium.com/max/400/known.png)"

	got := refs.Rewrite(content, func(id string) (string, bool) {
		if id == "known.png" {
			return "/assets/x/img-01.png", true
		}
		return "", false
	})
	want := "![a](/assets/x/img-01.png) " +
		"![b](https://cdn-images-1.medium.com/max/800/unknown.png) " +
		"![c](/assets/x/img-01.png)"
	if got != want {
		t.Errorf("Rewrite() = %q, want %q", got, want)
	}
}

func TestGuessExtension(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		contentType string
		want        string
	}{
		{"png suffix", "https://x/max/1200/1*a.png", "", ".png"},
		{"upper case suffix", "https://x/max/1200/1*a.JPG", "", ".jpg"},
		{"jpeg suffix", "https://x/max/1200/1*a.jpeg", "image/png", ".jpeg"},
		{"url wins over content type", "https://x/max/1200/a.gif", "image/webp", ".gif"},
		{"svg suffix", "https://x/max/1200/a.svg", "", ".svg"},
		{"content type jpeg", "https://x/max/1200/0*abc", "image/jpeg", ".jpeg"},
		{"content type jpg", "https://x/max/1200/0*abc", "image/jpg", ".jpeg"},
		{"content type gif", "https://x/max/1200/0*abc", "image/gif", ".gif"},
		{"content type webp", "https://x/max/1200/0*abc", "image/webp; charset=binary", ".webp"},
		{"content type png", "https://x/max/1200/0*abc", "IMAGE/PNG", ".png"},
		{"fallback", "https://x/max/1200/0*abc", "application/octet-stream", ".png"},
		{"no information", "https://x/max/1200/0*abc", "", ".png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GuessExtension(tt.url, tt.contentType); got != tt.want {
				t.Errorf("GuessExtension(%q, %q) = %q, want %q", tt.url, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestPostSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-15-my-first-post.md", "my-first-post"},
		{"_posts/2023-12-01-home-lab.md", "home-lab"},
		{"no-date.md", "no-date"},
		{"2024-1-1-bad-date.md", "2024-1-1-bad-date"},
	}
	for _, tt := range tests {
		if got := PostSlug(tt.in); got != tt.want {
			t.Errorf("PostSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
