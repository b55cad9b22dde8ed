package obs

import (
	"net/http"
	"sync/atomic"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric names in the exposition output.
const (
	metricUploads     = "healthboard_uploads_total"
	metricGenerations = "healthboard_ai_generations_total"
	metricFallbacks   = "healthboard_ai_fallbacks_total"
	metricChat        = "healthboard_chat_requests_total"
	metricLastUpload  = "healthboard_last_upload_timestamp_seconds"
)

// Counters holds the service's operational counters. All methods are safe
// for concurrent use. The zero value is ready to use.
type Counters struct {
	uploads     atomic.Int64
	generations atomic.Int64
	fallbacks   atomic.Int64
	chat        atomic.Int64
	lastUpload  atomic.Int64 // unix seconds of the most recent upload
}

func (c *Counters) IncUpload(unixNow int64) {
	c.uploads.Add(1)
	c.lastUpload.Store(unixNow)
}

func (c *Counters) IncGeneration() { c.generations.Add(1) }
func (c *Counters) IncFallback()   { c.fallbacks.Add(1) }
func (c *Counters) IncChat()       { c.chat.Add(1) }

func (c *Counters) Uploads() int64     { return c.uploads.Load() }
func (c *Counters) Generations() int64 { return c.generations.Load() }
func (c *Counters) Fallbacks() int64   { return c.fallbacks.Load() }

// Gather builds the metric families for the current counter values.
func (c *Counters) Gather() []*dto.MetricFamily {
	return []*dto.MetricFamily{
		counterFamily(metricUploads, "Total CSV datasets uploaded.", c.uploads.Load()),
		counterFamily(metricGenerations, "Total successful LLM generations.", c.generations.Load()),
		counterFamily(metricFallbacks, "Total generations served by the deterministic fallback.", c.fallbacks.Load()),
		counterFamily(metricChat, "Total chat requests handled.", c.chat.Load()),
		gaugeFamily(metricLastUpload, "Unix timestamp of the most recent upload.", float64(c.lastUpload.Load())),
	}
}

// Handler serves the counters in Prometheus text exposition format.
func (c *Counters) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		w.Header().Set("Content-Type", string(format))
		enc := expfmt.NewEncoder(w, format)
		for _, mf := range c.Gather() {
			if err := enc.Encode(mf); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
	})
}

func counterFamily(name, help string, value int64) *dto.MetricFamily {
	v := float64(value)
	return &dto.MetricFamily{
		Name: &name,
		Help: &help,
		Type: dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{
			{Counter: &dto.Counter{Value: &v}},
		},
	}
}

func gaugeFamily(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: &name,
		Help: &help,
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{
			{Gauge: &dto.Gauge{Value: &value}},
		},
	}
}
