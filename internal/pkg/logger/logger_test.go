package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/pkg/logger"
)

func TestLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug")

	log.Info("Transferência concluída", map[string]interface{}{"reference_code": "TRF-0011AABBCCDDEEFF", "quantity": 5})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Transferência concluída", entry["message"])
	assert.Equal(t, "TRF-0011AABBCCDDEEFF", entry["reference_code"])
	assert.EqualValues(t, 5, entry["quantity"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "warn")

	log.Debug("ignorado", nil)
	log.Info("ignorado", nil)
	assert.Zero(t, buf.Len())

	log.Error("Falha ao criar alerta", errors.New("boom"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
}
