package product

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is ISO-8601 local date-time with millisecond precision and no offset
const TimestampLayout = "2006-01-02T15:04:05.000"

// FormatTimestamp renders t in the server's local time using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeText makes free text safe to place inside a JSON string literal
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// renderTags writes tags as a JSON array without escaping individual elements.
// A tag containing a quote or backslash produces an unreadable record.
func renderTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	return `["` + strings.Join(tags, `", "`) + `"]`
}

// StoreRecord renders p as the single-line JSON object kept in the store
func StoreRecord(p *Published) string {
	return fmt.Sprintf(
		`{"published_id": "%s", "original_id": "%s", "title": "%s", "description": "%s", "tags": %s, "image_file": "%s", "price": %.2f, "published_at": "%s"}`,
		p.PublishedID,
		p.OriginalID,
		EscapeText(p.Title),
		EscapeText(p.Description),
		renderTags(p.Tags),
		p.ImageFile,
		p.Price,
		FormatTimestamp(p.PublishedAt),
	)
}

// PublishResponse renders the body returned to the client after a successful publish
func PublishResponse(p *Published, urls URLs) string {
	return fmt.Sprintf(`{
    "success": true,
    "product_id": "%s",
    "message": "Product published successfully",
    "published_at": "%s",
    "product_url": "%s",
    "admin_url": "%s",
    "price": %.2f,
    "status": "published"
}`,
		p.PublishedID,
		FormatTimestamp(p.PublishedAt),
		joinURL(urls.Store, p.PublishedID),
		joinURL(urls.Admin, p.PublishedID),
		p.Price,
	)
}

// LogLine renders the audit log entry for p, newline included
func LogLine(p *Published, now time.Time) string {
	return fmt.Sprintf("%s - Published: %s - %s - $%.2f\n",
		FormatTimestamp(now), p.PublishedID, p.Title, p.Price)
}

func joinURL(base, id string) string {
	return strings.TrimSuffix(base, "/") + "/" + id
}
