package compose

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shineum/notify-mailer/internal/email"
)

const (
	// Preamble is the first line of every notification body.
	Preamble = "Notification Email from Your Service"

	// NoDataText replaces the data block when a request carries no data.
	NoDataText = "No data provided."
)

// Render produces the plain-text body for a request. The output depends only
// on the request, so rendering the same request twice yields identical text.
func Render(req *email.Request) string {
	var b strings.Builder

	b.WriteString(Preamble)
	b.WriteString("\n\n")

	if req.Data == nil {
		b.WriteString(NoDataText)
	} else {
		for i, f := range req.Data.Fields() {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(f.Key)
			b.WriteString(": ")
			b.WriteString(FormatValue(f.Value))
		}
	}

	b.WriteByte('\n')
	return b.String()
}

// FormatValue converts a decoded data value to its textual form.
// Scalars use their natural representation; objects and arrays are written
// as compact JSON. Numbers are always printed in positional notation, so
// 1e21 becomes "1000000000000000000000" and 1e-7 becomes "0.0000001".
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case fmt.Stringer:
		return val.String()
	default:
		out, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(out)
	}
}
