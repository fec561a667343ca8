package scheduler

const (
	// Enrichment requests waiting for a worker.
	TOPIC_PENDING_ENRICHMENT = "topic.pending_enrichment"
	// Outcome of one enrichment request.
	TOPIC_ENRICHMENT_REPORT = "topic.enrichment_report"

	DDOG_ENRICHMENT_RUN_COUNTER     = "thr.enrichment.run"
	DDOG_TRACKDB_ENRICHED_COUNTER   = "thr.enrichment.trackdb.succeeded"
	DDOG_TRACKDB_FAILED_COUNTER     = "thr.enrichment.trackdb.failed"
	DDOG_ENRICHMENT_DURATION_MILLIS = "thr.enrichment.duration_ms"
)
