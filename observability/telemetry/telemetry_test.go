package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" authorization = Bearer abc ,broken, =empty,x-team=dex,")
	require.Equal(t, map[string]string{
		"authorization": "Bearer abc",
		"x-team":        "dex",
	}, got)
}

func TestInitWithoutExporters(t *testing.T) {
	shutdown, err := Init(context.Background(), Settings{ServiceName: "weidexd"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitRequiresServiceName(t *testing.T) {
	_, err := Init(context.Background(), Settings{Traces: true})
	require.ErrorIs(t, err, errServiceName)
}
