package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/rolodex/pkg/utils/logging"
)

func TestErrAttr(t *testing.T) {
	err := goerr.New("something broke")
	attr := logging.ErrAttr(err)

	gt.Value(t, attr.Key).Equal("error")

	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)
	logger.Error("failed to run app", attr)

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record)).Required()
	if _, ok := record["error"]; !ok {
		t.Errorf("error attribute missing from log record: %s", buf.String())
	}
}

func TestFrom(t *testing.T) {
	t.Run("returns default logger for bare context", func(t *testing.T) {
		gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
	})

	t.Run("returns logger bound via With", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.New(&buf, slog.LevelDebug, logging.FormatJSON)

		ctx := logging.With(context.Background(), logger)
		gt.Value(t, logging.From(ctx)).Equal(logger)
	})
}
