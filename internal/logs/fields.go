package logs

import "fmt"

// fields turns alternating key/value arguments into a map.
// A trailing key without a value is recorded under "!BADKEY".
func fields(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}

	out := make(map[string]any, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			out["!BADKEY"] = kv[i]
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		out[key] = kv[i+1]
	}
	return out
}
