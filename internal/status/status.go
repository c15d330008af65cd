package status

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/dtnitsch/blog-migrate/models"
	"github.com/dtnitsch/blog-migrate/pkg/localizer"
	"github.com/dtnitsch/blog-migrate/pkg/manifest"
	"github.com/dtnitsch/blog-migrate/pkg/storage"
)

// PostStatus describes how far one post is through localization.
type PostStatus struct {
	File  string
	Title string
	Slug  string
	// Local counts references already pointing at the asset directory.
	Local int
	// Cached counts remote identifiers that are downloaded but not yet rewritten.
	Cached int
	// Pending counts remote identifiers with no manifest entry.
	Pending int
}

// Done reports whether the post has no remote references left.
func (s PostStatus) Done() bool {
	return s.Cached == 0 && s.Pending == 0
}

// Inspector reads posts without modifying them or their asset directories.
type Inspector struct {
	Config       *models.Config
	OpenManifest manifest.OpenFunc

	refs    *localizer.References
	storage *storage.Storage
}

func NewInspector(cfg *models.Config, open manifest.OpenFunc) *Inspector {
	if open == nil {
		open = manifest.OpenFile
	}
	return &Inspector{
		Config:       cfg,
		OpenManifest: open,
		refs:         localizer.NewReferences(cfg.CDNBase),
		storage:      &storage.Storage{},
	}
}

// InspectAll returns the status of every post in the posts directory.
func (in *Inspector) InspectAll() ([]PostStatus, error) {
	posts, err := in.storage.List(in.Config.PostsDir, "*.md")
	if err != nil {
		return nil, err
	}
	statuses := make([]PostStatus, 0, len(posts))
	for _, p := range posts {
		st, err := in.Inspect(p)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect %s: %w", filepath.Base(p), err)
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func (in *Inspector) Inspect(postPath string) (PostStatus, error) {
	name := filepath.Base(postPath)
	st := PostStatus{File: name, Slug: localizer.PostSlug(name)}

	raw, err := in.storage.ReadFile(postPath)
	if err != nil {
		return st, err
	}

	var fm models.FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		// A post without front matter is still worth reporting on.
		body = raw
	}
	st.Title = fm.Title

	content := string(body)
	st.Local = strings.Count(content, path.Join(in.Config.PublicPrefix, st.Slug)+"/")

	ids := in.refs.ExtractIdentifiers(content)
	if len(ids) == 0 {
		return st, nil
	}
	store, err := in.OpenManifest(filepath.Join(in.Config.AssetsDir, st.Slug))
	if err != nil {
		return st, err
	}
	for _, id := range ids {
		if _, ok := store.Get(id); ok {
			st.Cached++
		} else {
			st.Pending++
		}
	}
	return st, nil
}
