package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Key identifies a logical read: an operation name followed by its parameters,
// e.g. Key{"productos", filter} or Key{"carrito", sessionID}.
type Key []any

const sep = "\x1f"

func (k Key) parts() []string {
	out := make([]string, len(k))
	for i, p := range k {
		out[i] = encodePart(p)
	}
	return out
}

func (k Key) String() string {
	return strings.Join(k.parts(), sep)
}

func encodePart(p any) string {
	switch v := p.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Sprintf("%v", p)
	}
	return string(b)
}

func hasPrefix(parts, prefix []string) bool {
	if len(prefix) > len(parts) {
		return false
	}
	for i := range prefix {
		if parts[i] != prefix[i] {
			return false
		}
	}
	return true
}
