package domain

// Point is one time bucket of a click series
type Point struct {
	Time   string `json:"time"`
	Clicks int64  `json:"clicks"`
}

type SeriesStatus int

const (
	SeriesLoading SeriesStatus = iota
	SeriesReady
	SeriesEmpty
	SeriesFailed
)

func (s SeriesStatus) String() string {
	switch s {
	case SeriesLoading:
		return "loading"
	case SeriesReady:
		return "ready"
	case SeriesEmpty:
		return "empty"
	case SeriesFailed:
		return "failed"
	}
	return "unknown"
}

// NowPoint stands in for a series the server reported with no points.
var NowPoint = Point{Time: "Now", Clicks: 0}

// AnalyticsSeries is the click series of the one code whose panel is open.
type AnalyticsSeries struct {
	Code   string
	Points []Point
	Status SeriesStatus
	Err    error // set when Status is SeriesFailed
}
