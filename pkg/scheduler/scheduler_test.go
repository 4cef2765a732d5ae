package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankwatch/rankwatch/pkg/collector"
)

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New("not a cron", collector.New(collector.Options{}))
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s, err := New("0 * * * *", collector.New(collector.Options{}))
	require.NoError(t, err)

	s.Start()
	s.Stop()
}
