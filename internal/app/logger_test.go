package app_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paytracker/paytracker/internal/app"
)

func TestNewLoggerToRespectsFormat(t *testing.T) {
	var buf bytes.Buffer

	app.NewLoggerTo(&buf, &app.Config{LogFormat: "json"}).Info("ready")
	require.Contains(t, buf.String(), `"msg":"ready"`)

	buf.Reset()
	app.NewLoggerTo(&buf, &app.Config{LogFormat: "pretty"}).Info("ready")
	require.Contains(t, buf.String(), "msg=ready")

	buf.Reset()
	app.NewLoggerTo(&buf, nil).Info("ready")
	require.Contains(t, buf.String(), "msg=ready")
}
