package publish

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const fallbackSlug = "untitled"

var (
	disallowedChars = regexp.MustCompile(`[^A-Za-z0-9\- ]+`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Slug keeps ASCII letters, digits, hyphens and spaces, turns each run of
// whitespace into a hyphen and lowercases the result. Titles with nothing
// left but whitespace become "untitled".
func Slug(title string) string {
	kept := disallowedChars.ReplaceAllString(title, "")
	if strings.TrimSpace(kept) == "" {
		return fallbackSlug
	}
	return strings.ToLower(whitespaceRuns.ReplaceAllString(kept, "-"))
}

// Filename is the slug suffixed with the millisecond epoch of now.
func Filename(title string, now time.Time) string {
	return fmt.Sprintf("%s-%d.md", Slug(title), now.UnixMilli())
}

// ComposeContent renders the committed document: the title as a level one
// heading, a blank line, then the body.
func ComposeContent(title, body string) string {
	return "# " + title + "\n\n" + body + "\n"
}

func CommitMessage(title string) string {
	return "Add draft: " + title
}
