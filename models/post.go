package models

// FrontMatter is the YAML header written at the top of every converted post.
// Field order here is the order the keys appear in the file.
type FrontMatter struct {
	Title      string   `yaml:"title"`
	Excerpt    string   `yaml:"excerpt,omitempty"`
	Categories []string `yaml:"categories"`
	Tags       []string `yaml:"tags"`
	Lang       string   `yaml:"lang,omitempty"`
}

// ExportedPost is the content pulled out of one exported HTML file.
type ExportedPost struct {
	Title string
	// BodyHTML is the cleaned post body, ready for Markdown conversion.
	BodyHTML string
}
