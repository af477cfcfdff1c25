package metric

// MetricItem is one component's metric snapshot. Components keep their own
// counters and render them on demand; the set only aggregates.
type MetricItem interface {
	JSONString() string
}

type mockMetricItem struct {
	name string
}

func (mock *mockMetricItem) JSONString() string {
	return mock.name
}
