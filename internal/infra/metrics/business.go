package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set by RegisterBusinessMetrics. While nil the record helpers do nothing,
// which keeps handler tests free of registry setup.
var (
	historyEntriesTotal *prometheus.CounterVec
	documentsExported   *prometheus.CounterVec
	loginsTotal         *prometheus.CounterVec
	imagesStored        prometheus.Counter
)

func RegisterBusinessMetrics(reg *prometheus.Registry) {
	if reg == nil {
		return
	}

	historyEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coleccion_history_entries_total",
			Help: "History log writes by action and outcome.",
		},
		[]string{"action", "status"},
	)
	documentsExported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coleccion_documents_exported_total",
			Help: "Exported reports by format and outcome.",
		},
		[]string{"format", "status"},
	)
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coleccion_logins_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)
	imagesStored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coleccion_images_stored_total",
		Help: "Uploaded artwork images written to disk.",
	})

	reg.MustRegister(historyEntriesTotal, documentsExported, loginsTotal, imagesStored)
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func RecordHistoryEntry(action string, ok bool) {
	if historyEntriesTotal != nil {
		historyEntriesTotal.WithLabelValues(action, statusLabel(ok)).Inc()
	}
}

func RecordExport(format string, ok bool) {
	if documentsExported != nil {
		documentsExported.WithLabelValues(format, statusLabel(ok)).Inc()
	}
}

// RecordLogin takes "success", "invalid" or "throttled".
func RecordLogin(result string) {
	if loginsTotal != nil {
		loginsTotal.WithLabelValues(result).Inc()
	}
}

func RecordImageStored() {
	if imagesStored != nil {
		imagesStored.Inc()
	}
}
