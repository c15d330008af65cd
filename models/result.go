package models

// PostResult holds the outcome of localizing one post.
type PostResult struct {
	Path       string `json:"path"`
	Slug       string `json:"slug"`
	References int    `json:"references"`
	Downloaded int    `json:"downloaded"`
	Failed     int    `json:"failed"`
	Cached     int    `json:"cached"`
	Bytes      int64  `json:"bytes"`
	Updated    bool   `json:"updated"`
}

// LocalizeSummary aggregates PostResults for a whole run.
type LocalizeSummary struct {
	RunID      string `json:"run_id"`
	Posts      int    `json:"posts"`
	PostErrors int    `json:"post_errors"`
	Downloaded int    `json:"downloaded"`
	Failed     int    `json:"failed"`
	Cached     int    `json:"cached"`
	Bytes      int64  `json:"bytes"`
	Updated    int    `json:"updated"`
}

// Add folds one post's counts into the summary.
func (s *LocalizeSummary) Add(r PostResult) {
	s.Posts++
	s.Downloaded += r.Downloaded
	s.Failed += r.Failed
	s.Cached += r.Cached
	s.Bytes += r.Bytes
	if r.Updated {
		s.Updated++
	}
}

// ConvertResult holds the outcome of converting one export file.
type ConvertResult struct {
	Source     string
	OutputPath string
	PostID     string
	Title      string
	Skipped    bool
	Reason     string
}
