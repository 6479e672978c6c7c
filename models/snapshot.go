package models

import "sort"

// PageContent is the structured summary extracted from one captured page.
// Every slice is non-nil after extraction so the JSON never carries null
// arrays; only Button.Href may be null.
type PageContent struct {
	Title      string     `json:"title"`
	Headings   []Heading  `json:"headings"`
	Navigation []Link     `json:"navigation"`
	Paragraphs []string   `json:"paragraphs"`
	Lists      [][]string `json:"lists"`
	Buttons    []Button   `json:"buttons"`
	Sections   []Section  `json:"sections"`

	// AllText is the full visible body text, kept as a backup of
	// everything the typed fields may have missed.
	AllText string `json:"allText"`
}

// Heading is an h1/h2/h3 element. Level is the upper-case tag name.
type Heading struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Link is an anchor found inside a nav or header region.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Button is a button-like element. Href is nil for elements that do not
// navigate (plain <button>, role="button" without a link).
type Button struct {
	Text string  `json:"text"`
	Href *string `json:"href"`
}

// Section is a section, main or article block.
type Section struct {
	ID        string `json:"id"`
	ClassName string `json:"className"`
	Text      string `json:"text"`
}

// Aggregate maps page name to its extracted content.
type Aggregate map[string]*PageContent

// Names returns the page names in a, sorted.
func (a Aggregate) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Artifacts lists the files written for one page.
type Artifacts struct {
	Screenshot string `json:"screenshot"`
	HTML       string `json:"html"`
	Content    string `json:"content"`
	Markdown   string `json:"markdown,omitempty"`
}

// PageResult is the outcome of capturing one target.
type PageResult struct {
	Name      string       `json:"name"`
	URL       string       `json:"url"`
	Artifacts Artifacts    `json:"artifacts"`
	Content   *PageContent `json:"-"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// RunSummary describes a finished (or aborted) snapshot run. It is the
// payload of run notification events.
type RunSummary struct {
	Pages      []PageResult `json:"pages"`
	Aggregate  string       `json:"aggregate,omitempty"`
	DurationMs int64        `json:"duration_ms"`
	Error      *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail is the structured error carried in summaries and responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToDetail converts an internal error to an ErrorDetail.
func (e *SnapError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// DetailOf builds an ErrorDetail for any error, falling back to
// ErrCodeInternal for errors that are not SnapErrors.
func DetailOf(err error) *ErrorDetail {
	if err == nil {
		return nil
	}
	return &ErrorDetail{Code: CodeOf(err), Message: err.Error()}
}
