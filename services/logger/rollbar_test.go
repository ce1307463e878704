package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/mediateam/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Debug: true, Env: "TEST"})

	person := core.Person{ID: "1", Email: "admin@example.com"}
	l.Error("listing colleges", errors.New("boom"), map[string]interface{}{"path": "/colleges"}, person)

	out := buf.String()
	assert.Contains(t, out, "[ERROR] listing colleges")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "/colleges")
	assert.NotContains(t, out, "admin@example.com", "person is reported, not printed")
}

func TestRollbarLogger_prepare(t *testing.T) {
	l := RollbarLogger{}
	err := errors.New("boom")
	args := l.prepare("msg", []interface{}{core.Person{ID: "1"}, err, core.Person{ID: "2"}})
	assert.Equal(t, []interface{}{"msg", err}, args)
}
