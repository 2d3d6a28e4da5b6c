package indexer

// progressEmitIntervalMs throttles non-forced progress emission, matching
// util.rs's INDEX_PROGRESS_EMIT_INTERVAL_MS.
const progressEmitIntervalMs = 120

// emitProgress stamps p.ElapsedMs and delivers it to sink, unless force is
// false and less than progressEmitIntervalMs has passed since the last
// emission. *lastEmitMs is updated whenever a payload is actually sent.
func emitProgress(sink EventSink, startedAt int64, nowMs func() int64, lastEmitMs *int64, p Progress, force bool) {
	if sink == nil {
		return
	}
	now := nowMs()
	if !force && now-*lastEmitMs < progressEmitIntervalMs {
		return
	}
	p.ElapsedMs = now - startedAt
	sink.OnIndexProgress(p)
	*lastEmitMs = now
}
