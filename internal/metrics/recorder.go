package metrics

import "time"

// PageResult enumerates what happened to a rendered page.
type PageResult string

const (
	PageWritten   PageResult = "written"
	PageUnchanged PageResult = "unchanged"
	PageFailed    PageResult = "failed"
)

// BuildOutcome enumerates final build states.
type BuildOutcome string

const (
	BuildSuccess BuildOutcome = "success"
	BuildFailed  BuildOutcome = "failed"
)

// Recorder defines observability hooks for site builds and page renders.
// Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcome)
	ObservePageRender(d time.Duration)
	IncPageResult(result PageResult)
	IncRedirect()
	AddBytesWritten(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)       {}
func (NoopRecorder) ObservePageRender(time.Duration)    {}
func (NoopRecorder) IncPageResult(PageResult)           {}
func (NoopRecorder) IncRedirect()                       {}
func (NoopRecorder) AddBytesWritten(int)                {}
