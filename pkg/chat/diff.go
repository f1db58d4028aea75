package chat

// diffContext returns the entries whose value changed between the pre-turn
// and post-turn context snapshots. New keys are included, unchanged keys
// excluded; keys that vanished are ignored since tools only ever add or
// overwrite fields.
func diffContext(before, after map[string]string) map[string]string {
	changes := make(map[string]string)
	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			changes[k] = v
		}
	}
	return changes
}
