package domain

// Result is a single ranked entry on a result page.
type Result struct {
	Rank       int     `json:"rank" yaml:"rank"`
	DocumentID string  `json:"document_id" yaml:"document_id"`
	Score      float64 `json:"score" yaml:"score"`
	Title      string  `json:"title" yaml:"title"`
	Snippet    string  `json:"snippet" yaml:"snippet"`
	URL        string  `json:"url,omitempty" yaml:"url,omitempty"`
}

// ResultPage is the ordered list of results returned for a query.
type ResultPage struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

// Len returns the number of results on the page. A nil page is empty.
func (p *ResultPage) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Results)
}

// Document is the full content behind a result.
type Document struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Response is the answer of a conversational system to an utterance.
type Response struct {
	ID        string `json:"id"`
	Utterance string `json:"utterance"`
	Text      string `json:"text"`
}
