package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the contact module.
// Tracks directory mutations, its current size and persistence durations.
type Metrics struct {
	ContactsCreated   prometheus.Counter
	ContactsDeleted   prometheus.Counter
	PhoneChanges      *prometheus.CounterVec
	BirthdaysSet      prometheus.Counter
	DirectorySize     prometheus.Gauge
	OperationFailures *prometheus.CounterVec
	LoadDuration      prometheus.Histogram
	SaveDuration      prometheus.Histogram
}

var persistenceBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// New registers the contact metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ContactsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "contactbook_contacts_created_total",
			Help: "Total number of contacts created",
		}),
		ContactsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "contactbook_contacts_deleted_total",
			Help: "Total number of contacts deleted",
		}),
		PhoneChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "contactbook_phone_changes_total",
			Help: "Phone mutations by kind (added, changed, removed)",
		}, []string{"kind"}),
		BirthdaysSet: f.NewCounter(prometheus.CounterOpts{
			Name: "contactbook_birthdays_set_total",
			Help: "Total number of birthdays recorded",
		}),
		DirectorySize: f.NewGauge(prometheus.GaugeOpts{
			Name: "contactbook_directory_size",
			Help: "Number of records currently in the directory",
		}),
		OperationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "contactbook_operation_failures_total",
			Help: "Failed contact operations by operation and error code",
		}, []string{"operation", "code"}),
		LoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "contactbook_load_duration_seconds",
			Help:    "Duration of directory loads from the persistence gateway",
			Buckets: persistenceBuckets,
		}),
		SaveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "contactbook_save_duration_seconds",
			Help:    "Duration of directory saves to the persistence gateway",
			Buckets: persistenceBuckets,
		}),
	}
}

func (m *Metrics) IncrementContactsCreated() {
	m.ContactsCreated.Inc()
}

func (m *Metrics) IncrementContactsDeleted() {
	m.ContactsDeleted.Inc()
}

// IncrementPhoneChange records a phone mutation; kind is added, changed or removed.
func (m *Metrics) IncrementPhoneChange(kind string) {
	m.PhoneChanges.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementBirthdaysSet() {
	m.BirthdaysSet.Inc()
}

func (m *Metrics) SetDirectorySize(n int) {
	m.DirectorySize.Set(float64(n))
}

func (m *Metrics) IncrementFailure(operation, code string) {
	m.OperationFailures.WithLabelValues(operation, code).Inc()
}

// ObserveLoad records the duration of a Load operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveLoad(start time.Time) {
	m.LoadDuration.Observe(time.Since(start).Seconds())
}

// ObserveSave records the duration of a Save operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSave(start time.Time) {
	m.SaveDuration.Observe(time.Since(start).Seconds())
}
