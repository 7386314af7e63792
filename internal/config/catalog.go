package config

// CatalogEntry is one curated default site. Catalog entries pad the
// grid when ranked history cannot fill it; they never participate in
// ranking themselves.
type CatalogEntry struct {
	// Location is the full URL of the default site.
	Location string `yaml:"location"`

	// Title is the display title for the default site.
	Title string `yaml:"title,omitempty"`
}

// DefaultCatalog returns the built-in curated defaults used when the
// configuration file does not provide its own catalog. The editorial
// content of this list is a placeholder data set; deployments override
// it via the `catalog:` section of the config file.
func DefaultCatalog() []CatalogEntry {
	return []CatalogEntry{
		{Location: "https://en.wikipedia.org", Title: "Wikipedia"},
		{Location: "https://archive.org", Title: "Internet Archive"},
		{Location: "https://www.openstreetmap.org", Title: "OpenStreetMap"},
		{Location: "https://news.ycombinator.com", Title: "Hacker News"},
		{Location: "https://www.gutenberg.org", Title: "Project Gutenberg"},
		{Location: "https://duckduckgo.com", Title: "DuckDuckGo"},
		{Location: "https://github.com", Title: "GitHub"},
		{Location: "https://go.dev", Title: "The Go Programming Language"},
	}
}
