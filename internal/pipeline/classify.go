package pipeline

import (
	"strings"

	"github.com/sells-group/campaign-cli/internal/model"
)

// classifyRules are checked in order; the first match wins.
var classifyRules = []struct {
	keywords []string
	class    model.ResponseClass
}{
	{[]string{"not interested", "unsubscribe"}, model.ResponseUninterested},
	{[]string{"call", "meeting"}, model.ResponsePositive},
	{[]string{"later", "next quarter"}, model.ResponseNurture},
}

// ClassifyResponse buckets text by keyword. The pipeline applies it to the
// outbound draft; there is no inbound reply channel yet.
func ClassifyResponse(text string) model.ResponseClass {
	lower := strings.ToLower(text)
	for _, r := range classifyRules {
		if containsAny(lower, r.keywords) {
			return r.class
		}
	}
	return model.ResponseNoReply
}
