package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/munjed-ab/djcraft/internal/cli/wizard"
)

// splitPair splits "key:value" as given to --dir, --app-dir and
// --app-feature. Both sides are normalized; value may be empty only when
// allowEmpty is set ("apps" and "apps:" both mean a top-level directory).
func splitPair(flag, s string, allowEmpty bool) (string, string, error) {
	key, value, _ := strings.Cut(s, ":")
	key, value = wizard.Normalize(key), wizard.Normalize(value)
	if key == "" || (value == "" && !allowEmpty) {
		return "", "", fmt.Errorf("--%s %q: want %s", flag, s, pairUsage[flag])
	}
	return key, value, nil
}

var pairUsage = map[string]string{
	"dir":         "name[:parent]",
	"app-dir":     "app:directory",
	"app-feature": "app:feature",
}

// normalizeList normalizes every entry and drops empty ones.
func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if v := wizard.Normalize(it); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseServiceOptions decodes --service-options, a JSON object keyed by
// service name.
func parseServiceOptions(s string) (map[string]map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out map[string]map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("--service-options: %w", err)
	}
	return out, nil
}

// parseOptionsObject decodes a single service's options as typed in the
// interactive builder.
func parseOptionsObject(s string) (map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("options must be a JSON object: %w", err)
	}
	return out, nil
}
