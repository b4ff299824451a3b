package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-cli/internal/model"
)

type sentMail struct {
	to, subject, body string
}

// fakeSender records sends and fails for addresses in fail.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	fail map[string]error
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func TestSubject(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Acme Corp x Quick idea for Q3", Subject(jane, "3"))
	assert.Equal(t, " x Quick idea for Q4", Subject(model.Lead{}, "4"))
}

func TestDeliver_Sent(t *testing.T) {
	t.Parallel()

	s := &fakeSender{}
	d := Deliver(context.Background(), s, jane, "subj", "body")

	assert.Equal(t, model.Sent(), d)
	require.Len(t, s.sent, 1)
	assert.Equal(t, sentMail{to: "jane@acme.com", subject: "subj", body: "body"}, s.sent[0])
}

func TestDeliver_SkippedWithoutSend(t *testing.T) {
	t.Parallel()

	s := &fakeSender{}
	d := Deliver(context.Background(), s, model.Lead{Name: "No Email", Email: "  "}, "subj", "body")

	assert.Equal(t, "SKIPPED: Missing email", d.String())
	assert.Empty(t, s.sent)
}

func TestDeliver_Failed(t *testing.T) {
	t.Parallel()

	s := &fakeSender{fail: map[string]error{"jane@acme.com": errors.New("dial tcp: connection refused")}}
	d := Deliver(context.Background(), s, jane, "subj", "body")

	assert.Equal(t, model.DeliveryFailed, d.Kind)
	assert.Equal(t, "ERROR: dial tcp: connection refused", d.String())
}
