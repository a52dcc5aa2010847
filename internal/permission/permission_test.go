package permission_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/clambin/lights/internal/permission"
	"github.com/stretchr/testify/assert"
)

func TestAllowList_Authorize(t *testing.T) {
	gate := permission.NewAllowList([]string{"admin"}, map[string][]string{
		"alarm": {"guard", "operator"},
		"dim":   {"operator"},
	})

	tests := []struct {
		invoker string
		preset  string
		want    assert.BoolAssertionFunc
	}{
		{invoker: "admin", preset: "alarm", want: assert.True},
		{invoker: "admin", preset: "unknown", want: assert.True},
		{invoker: "guard", preset: "alarm", want: assert.True},
		{invoker: "guard", preset: "dim", want: assert.False},
		{invoker: "operator", preset: "dim", want: assert.True},
		{invoker: "visitor", preset: "alarm", want: assert.False},
		{invoker: "", preset: "alarm", want: assert.False},
	}

	for _, tt := range tests {
		t.Run(tt.invoker+"/"+tt.preset, func(t *testing.T) {
			tt.want(t, gate.Authorize(tt.invoker, tt.preset))
		})
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	gate := permission.New(nil, nil, l)
	assert.IsType(t, permission.DenyAll{}, gate)
	assert.False(t, gate.Authorize("anyone", "anything"))
	assert.False(t, gate.Authorize("admin", "alarm"))
	assert.Contains(t, buf.String(), "level=WARN msg=\"no users configured")

	buf.Reset()
	gate = permission.New([]string{"admin"}, nil, l)
	assert.IsType(t, &permission.AllowList{}, gate)
	assert.False(t, gate.Authorize("anyone", "anything"))
	assert.True(t, gate.Authorize("admin", "anything"))
	assert.Empty(t, buf.String())

	gate = permission.New(nil, map[string][]string{"alarm": {"guard"}}, l)
	assert.True(t, gate.Authorize("guard", "alarm"))
}
