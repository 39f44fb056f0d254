package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
)

const Day = time.Hour * 24

// Period is the time range metrics are fetched over. It is anchored once, so
// every request made for it sees the same windows.
type Period struct {
	end        time.Time
	span       time.Duration
	resolution int64 // seconds per datapoint
}

// NewPeriod covers span up to end, rounded down to the minute.
func NewPeriod(end time.Time, span time.Duration) *Period {
	return &Period{
		end:        end.Truncate(time.Minute),
		span:       span,
		resolution: 60,
	}
}

func (period *Period) Start() time.Time { return period.end.Add(-period.span) }
func (period *Period) End() time.Time   { return period.end }

type window struct{ start, end time.Time }

// windows splits the period into requests of at most a day, oldest first.
// A day of minutes is the most datapoints a single request may return.
func (period *Period) windows() []window {
	var ws []window
	for start := period.Start(); start.Before(period.end); start = start.Add(Day) {
		end := start.Add(Day)
		if end.After(period.end) {
			end = period.end
		}
		ws = append(ws, window{start: start, end: end})
	}
	return ws
}

// cloudWatchQuery selects two metrics sharing a namespace and dimensions;
// x is the independent and y the dependent variable.
type cloudWatchQuery struct {
	namespace  string
	x, y       string
	statistic  string
	dimensions dimensionsFlag
}

// dimensionsFlag collects repeated Name=Value flags.
type dimensionsFlag []*cloudwatch.Dimension

func (d *dimensionsFlag) String() string {
	parts := make([]string, 0, len(*d))
	for _, dim := range *d {
		parts = append(parts, aws.StringValue(dim.Name)+"="+aws.StringValue(dim.Value))
	}
	return strings.Join(parts, ",")
}

func (d *dimensionsFlag) Set(v string) error {
	name, value, ok := strings.Cut(v, "=")
	if !ok || name == "" {
		return fmt.Errorf("dimension '%s' is not Name=Value", v)
	}
	*d = append(*d, &cloudwatch.Dimension{Name: aws.String(name), Value: aws.String(value)})
	return nil
}

func readCloudWatch(q cloudWatchQuery, period *Period) (*observations, error) {
	if q.y == "" {
		return nil, fmt.Errorf("a dependent metric is required with '%s'", q.x)
	}
	sess := session.Must(session.NewSession(&aws.Config{Region: aws.String(region)}))
	return fetchMetricPairs(cloudwatch.New(sess), q, period)
}

func fetchMetricPairs(client cloudwatchiface.CloudWatchAPI, q cloudWatchQuery, period *Period) (*observations, error) {
	xs, err := getMetric(client, q, q.x, period)
	if err != nil {
		return nil, err
	}
	ys, err := getMetric(client, q, q.y, period)
	if err != nil {
		return nil, err
	}
	return pairMetrics(xs, ys), nil
}

// getMetric returns the metric keyed by the minute (unix seconds) each
// datapoint was recorded in.
func getMetric(client cloudwatchiface.CloudWatchAPI, q cloudWatchQuery, metricName string, period *Period) (map[int64]float64, error) {
	result := make(map[int64]float64)

	for _, w := range period.windows() {

		res, err := client.GetMetricStatistics(&cloudwatch.GetMetricStatisticsInput{
			Dimensions: q.dimensions,
			Namespace:  aws.String(q.namespace),
			MetricName: aws.String(metricName),
			StartTime:  aws.Time(w.start),
			EndTime:    aws.Time(w.end),
			Period:     aws.Int64(period.resolution),
			Statistics: []*string{aws.String(q.statistic)},
		})

		if err != nil {
			return nil, fmt.Errorf("could not get '%s': %w", metricName, err)
		}

		if err := sumMetric(res.Datapoints, q.statistic, result); err != nil {
			return nil, err
		}
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no datapoints were found for '%s'", metricName)
	}
	debugf("%s: %d datapoints", metricName, len(result))

	return result, nil
}

// pairMetrics joins two series on the minute they were recorded, oldest first.
func pairMetrics(xs, ys map[int64]float64) *observations {
	minutes := make([]int64, 0, len(xs))
	for minute := range xs {
		if _, found := ys[minute]; found {
			minutes = append(minutes, minute)
		}
	}
	sort.Slice(minutes, func(i, j int) bool { return minutes[i] < minutes[j] })

	obs := &observations{}
	for _, minute := range minutes {
		obs.add(xs[minute], ys[minute])
	}
	return obs
}

func sumMetric(in []*cloudwatch.Datapoint, statistic string, result map[int64]float64) error {
	for _, point := range in {
		if point.Timestamp == nil {
			return errors.New("datapoint without a timestamp")
		}
		v, err := datapointValue(point, statistic)
		if err != nil {
			return err
		}
		// datapoints landing in the same minute are added together
		result[minuteOf(*point.Timestamp)] += v
	}
	return nil
}

func datapointValue(point *cloudwatch.Datapoint, statistic string) (float64, error) {
	var v *float64
	switch statistic {
	case cloudwatch.StatisticSum:
		v = point.Sum
	case cloudwatch.StatisticAverage:
		v = point.Average
	case cloudwatch.StatisticMinimum:
		v = point.Minimum
	case cloudwatch.StatisticMaximum:
		v = point.Maximum
	case cloudwatch.StatisticSampleCount:
		v = point.SampleCount
	default:
		return 0, fmt.Errorf("unsupported statistic '%s'", statistic)
	}
	if v == nil {
		return 0, fmt.Errorf("datapoint at %s has no %s", aws.TimeValue(point.Timestamp), statistic)
	}
	return *v, nil
}

func minuteOf(t time.Time) int64 {
	return t.Truncate(time.Minute).Unix()
}
