package importer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsImportedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "centavo",
		Subsystem: "import",
		Name:      "rows_imported_total",
		Help:      "Rows successfully mapped to records, by record kind.",
	}, []string{"kind"})

	rowsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "centavo",
		Subsystem: "import",
		Name:      "rows_skipped_total",
		Help:      "Rows rejected by per-row validation, by record kind.",
	}, []string{"kind"})

	categoriesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "centavo",
		Subsystem: "import",
		Name:      "categories_created_total",
		Help:      "Categories auto-created while reconciling imported rows.",
	})
)

func observeImport(kind string, imported, skipped, created int) {
	rowsImportedTotal.WithLabelValues(kind).Add(float64(imported))
	rowsSkippedTotal.WithLabelValues(kind).Add(float64(skipped))
	if created > 0 {
		categoriesCreatedTotal.Add(float64(created))
	}
}
