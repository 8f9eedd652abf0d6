package domain

// PluginProperty is a free-form key/value pair passed through to payment plugins.
type PluginProperty struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	IsUpdatable bool   `json:"isUpdatable"`
}

// MergeProperties overlays overrides on top of defaults. Keys present in both
// keep the position of the default and take the override's value.
func MergeProperties(defaults, overrides []PluginProperty) []PluginProperty {
	merged := make([]PluginProperty, 0, len(defaults)+len(overrides))
	index := make(map[string]int, len(defaults)+len(overrides))

	for _, p := range defaults {
		if i, ok := index[p.Key]; ok {
			merged[i] = p
			continue
		}
		index[p.Key] = len(merged)
		merged = append(merged, p)
	}
	for _, p := range overrides {
		if i, ok := index[p.Key]; ok {
			merged[i] = p
			continue
		}
		index[p.Key] = len(merged)
		merged = append(merged, p)
	}
	return merged
}

// PropertiesToMap flattens properties into the query map the remote API
// expects. Extras are applied last and win on key collisions.
func PropertiesToMap(props []PluginProperty, extras ...PluginProperty) map[string]string {
	out := make(map[string]string, len(props)+len(extras))
	for _, p := range props {
		out[p.Key] = p.Value
	}
	for _, p := range extras {
		out[p.Key] = p.Value
	}
	return out
}
