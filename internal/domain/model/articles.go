package model

// Article is one deep-dive listing. The body lives outside the fixture set.
type Article struct {
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Published string   `json:"published"`
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags,omitempty"`
}

// ArticleIndex is data/articles/index.json.
type ArticleIndex struct {
	Articles []Article `json:"articles"`
}

// RequiredKeys implements Fixture.
func (ArticleIndex) RequiredKeys() []string { return []string{"articles"} }

// Validate implements Fixture.
func (a ArticleIndex) Validate() error {
	for i, art := range a.Articles {
		if art.Slug == "" {
			return invalid("articles[%d]: missing slug", i)
		}
	}
	return nil
}
