package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
)

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// WriteCharts renders the summary into PNG files under dir and returns the
// paths written. Groups with no data are skipped rather than rendered as
// empty charts, so an empty summary writes nothing and returns no error.
func WriteCharts(s Summary, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	written := make([]string, 0, 5)
	write := func(name string, r renderable) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := r.Render(chart.PNG, f); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if c := cachePerformanceChart(s); c != nil {
		if err := write("cache-performance.png", c); err != nil {
			return written, err
		}
	}
	if c := timelineChart(s); c != nil {
		if err := write("response-timeline.png", c); err != nil {
			return written, err
		}
	}
	if c := cacheHitRateChart(s); c != nil {
		if err := write("cache-hit-rate.png", c); err != nil {
			return written, err
		}
	}
	if c := statusCodeChart(s); c != nil {
		if err := write("status-codes.png", c); err != nil {
			return written, err
		}
	}
	if c := errorRateChart(s); c != nil {
		if err := write("error-rates.png", c); err != nil {
			return written, err
		}
	}
	return written, nil
}

// cachePerformanceChart compares mean response times of first vs cached
// large-object requests.
func cachePerformanceChart(s Summary) renderable {
	if s.NoCache == nil || s.Cached == nil {
		return nil
	}
	max := s.NoCache.Mean
	if s.Cached.Mean > max {
		max = s.Cached.Mean
	}
	if max == 0 {
		return nil
	}
	title := "Cache Performance Impact"
	if s.Speedup != nil {
		title = fmt.Sprintf("Cache Performance Impact (speedup %.1f%%)", *s.Speedup)
	}
	return chart.BarChart{
		Title:    title,
		Width:    800,
		Height:   512,
		BarWidth: 80,
		YAxis: chart.YAxis{
			Name:  "Response time (s)",
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
		},
		Bars: []chart.Value{
			{Value: s.NoCache.Mean, Label: "First request"},
			{Value: s.Cached.Mean, Label: "Cached requests"},
		},
	}
}

// timelineChart plots response times over the whole run.
func timelineChart(s Summary) renderable {
	if len(s.Timeline) < 2 {
		return nil
	}
	xs := make([]float64, len(s.Timeline))
	ys := make([]float64, len(s.Timeline))
	var max float64
	for i, p := range s.Timeline {
		xs[i] = float64(i + 1)
		ys[i] = p.ResponseTime
		if p.ResponseTime > max {
			max = p.ResponseTime
		}
	}
	if max == 0 {
		return nil
	}
	return chart.Chart{
		Title:  "Request Response Times Over Run",
		Width:  1024,
		Height: 512,
		XAxis:  chart.XAxis{Name: "Request"},
		YAxis: chart.YAxis{
			Name:  "Response time (s)",
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "response time", XValues: xs, YValues: ys},
		},
	}
}

// cacheHitRateChart shows the share of samples served from cache.
func cacheHitRateChart(s Summary) renderable {
	values := make([]chart.Value, 0, 2)
	if n := s.CacheHitCounts[true]; n > 0 {
		values = append(values, chart.Value{Value: float64(n), Label: fmt.Sprintf("cache hit (%d)", n)})
	}
	if n := s.CacheHitCounts[false]; n > 0 {
		values = append(values, chart.Value{Value: float64(n), Label: fmt.Sprintf("no cache (%d)", n)})
	}
	if len(values) == 0 {
		return nil
	}
	return chart.PieChart{
		Title:  "Cache Hit Rate",
		Width:  512,
		Height: 512,
		Values: values,
	}
}

// statusCodeChart counts samples per HTTP status code.
func statusCodeChart(s Summary) renderable {
	if len(s.StatusCounts) == 0 {
		return nil
	}
	codes := make([]int, 0, len(s.StatusCounts))
	var max float64
	for code := range s.StatusCounts {
		codes = append(codes, code)
		if c := float64(s.StatusCounts[code]); c > max {
			max = c
		}
	}
	if max == 0 {
		return nil
	}
	sort.Ints(codes)
	bars := make([]chart.Value, 0, len(codes))
	for _, code := range codes {
		label := fmt.Sprintf("%d", code)
		if code == 0 {
			label = "none"
		}
		bars = append(bars, chart.Value{Value: float64(s.StatusCounts[code]), Label: label})
	}
	return chart.BarChart{
		Title:    "Status Code Distribution",
		Width:    800,
		Height:   512,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
		},
		Bars: bars,
	}
}

// errorRateChart shows the error percentage per operation. Skipped entirely
// when no operation saw an error.
func errorRateChart(s Summary) renderable {
	var max float64
	for _, er := range s.ErrorRates {
		if er.Rate > max {
			max = er.Rate
		}
	}
	if max == 0 {
		return nil
	}
	bars := make([]chart.Value, 0, len(s.ErrorRates))
	for _, er := range s.ErrorRates {
		bars = append(bars, chart.Value{Value: er.Rate, Label: er.Operation})
	}
	return chart.BarChart{
		Title:    "Error Rate by Operation",
		Width:    1024,
		Height:   512,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Name:  "Error rate (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
		},
		Bars: bars,
	}
}
