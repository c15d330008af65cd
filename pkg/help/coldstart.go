package help

const ColdstartYAML = `# blog-migrate Quick Start

steps:
  convert: |
    blog-migrate convert --export-dir medium-export/posts --posts-dir _posts

  localize: |
    blog-migrate localize

  check: |
    blog-migrate status

commands:
  with_config: |
    blog-migrate --config blog-migrate.yaml localize

  slower_pacing: |
    blog-migrate localize --delay 5s --attempts 5

  sqlite_manifests: |
    blog-migrate localize --backend sqlite --db blog-migrate.db

  record_history: |
    blog-migrate localize --history

  list_runs: |
    blog-migrate runs list

  run_details: |
    blog-migrate runs show <run-id>

notes:
  rerun: "localize is safe to re-run; already downloaded images are never fetched again"
  failures: "failed downloads leave the original URL in place and are retried on the next run"
  rate_limits: "HTTP 429 responses are retried after 10s and 20s by default, 3 attempts in total"
  numbering: "images are named img-01, img-02, ... per post and numbers are never reused"
`

// ExampleConfig is a complete config file with the default values.
const ExampleConfig = `export_dir: medium-export/posts
posts_dir: _posts
assets_dir: assets/images/posts
public_prefix: /assets/images/posts

cdn_base: https://cdn-images-1.medium.com
download_size: 1200
user_agent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
timeout: 30s
download_delay: 2s
max_attempts: 3
retry_backoff: 10s

manifest_backend: json
db_path: blog-migrate.db

detect_language: false
languages: [en, de, fr, es]

default_metadata:
  categories: [Uncategorized]
  tags: []

posts:
  e9478f7be3a6:
    categories: [Meta]
    tags: [personal, career]
    excerpt: "How it all started."
`
