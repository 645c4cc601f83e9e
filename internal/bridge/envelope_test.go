package bridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"id":"abc123","method":"add","params":[2,3]}`))
	require.NoError(t, err)
	require.Equal(t, "abc123", env.ID)
	require.Equal(t, "add", env.Method)
	require.Equal(t, "[2,3]", env.ParamsText())
}

func TestParseEnvelopeMalformed(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{"id":`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode bridge envelope")
}

func TestParamsTextDefaultsToNull(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"id":"x","method":"ping"}`))
	require.NoError(t, err)
	require.Equal(t, "null", env.ParamsText())
}
