package domain

import (
	"fmt"
	"strings"
	"time"
)

// Topic is a trending phrase discovered by one of the trend providers.
type Topic struct {
	Raw          string
	Normalized   string
	Region       string
	DiscoveredAt time.Time
	SourceTag    string
	OriginURL    string
}

// ArticleStatus enumerates the publication lifecycle.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// ImageOrigin identifies the resolver strategy that produced an attachment.
type ImageOrigin string

const (
	OriginFigureProfile ImageOrigin = "figure_profile"
	OriginScraped       ImageOrigin = "scraped_origin"
	OriginStock         ImageOrigin = "stock"
	OriginAIGenerated   ImageOrigin = "ai_generated"
	OriginPlaceholder   ImageOrigin = "placeholder"
)

// ImageAttachment is the single image attached to an Article. Bytes and
// Filename are set when the image could be downloaded; otherwise only the
// remote URL is recorded.
type ImageAttachment struct {
	URL      string
	AltText  string
	Credit   string
	License  string
	Origin   ImageOrigin
	Bytes    []byte
	Filename string
}

// Article is the synthesized unit, persisted once per topic per day.
type Article struct {
	Title       string
	Slug        string
	Dek         string
	BodyHTML    string
	WordCount   int
	Category    string
	SourceKey   string
	SourceLabel string
	Image       ImageAttachment
	PublishedAt time.Time
	Status      ArticleStatus
}

// SourceKey builds the idempotency key: at most one article per topic per
// day per region.
func SourceKey(region, normalized string, day time.Time) string {
	return fmt.Sprintf("trend:%s:%s:%s",
		strings.ToUpper(region), strings.ToLower(normalized), day.Format("20060102"))
}

// ForcedSourceKey narrows the key to the run minute so a forced run can
// publish a second same-day article without tripping the daily unique key.
func ForcedSourceKey(region, normalized string, runAt time.Time) string {
	return fmt.Sprintf("trend:%s:%s:%s",
		strings.ToUpper(region), strings.ToLower(normalized), runAt.Format("200601021504"))
}

// WorkerState tracks per-topic progress inside one run.
type WorkerState string

const (
	StatePending          WorkerState = "pending"
	StateImageResolved    WorkerState = "image_resolved"
	StateSynthesized      WorkerState = "synthesized"
	StatePersisted        WorkerState = "persisted"
	StateSkippedDuplicate WorkerState = "skipped_duplicate"
	StateFailed           WorkerState = "failed"
)

// TopicOutcome records the terminal state of one per-topic worker.
type TopicOutcome struct {
	Topic  Topic
	State  WorkerState
	Kind   string
	Slug   string
	Detail string
}

// RunReport is the result of one orchestrator invocation.
type RunReport struct {
	ID                string
	StartedAt         time.Time
	FinishedAt        time.Time
	Requested         int
	Produced          int
	SkippedDuplicates int
	Outcomes          []TopicOutcome
}

// FailedCount counts workers that ended in the failed state.
func (r RunReport) FailedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == StateFailed {
			n++
		}
	}
	return n
}

// Succeeded reports whether the run produced at least one article.
func (r RunReport) Succeeded() bool {
	return r.Produced >= 1
}

// PeriodSummary aggregates persisted output for the report command.
type PeriodSummary struct {
	Since      time.Time
	Total      int
	ByCategory map[string]int
	ByHour     map[int]int
	ByWeekday  map[time.Weekday]int
	BySource   map[string]int
}
