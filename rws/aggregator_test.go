package rws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectRuntimeInfo(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)

	info, err := s.CollectRuntimeInfo(testContext(t))
	require.NoError(t, err)
	assert.True(t, info.AutoMode)
	assert.True(t, info.MotorsOn)
	assert.False(t, info.RAPIDRunning)
	assert.True(t, info.RWSConnected)
}

func TestCollectStaticInfo(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)

	data, err := s.CollectStaticInfo(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "FakeSystem", data.System.SystemName)
	assert.Len(t, data.Tasks, 2)
	require.Contains(t, data.Units, "ROB_1")
	assert.NotContains(t, data.Units, "TRACK", "Неактивный блок пропускается")
	assert.Equal(t, "T_ROB1", data.Units["ROB_1"].TaskName)
}

func TestAggregateAllData(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)

	data, err := s.AggregateAllData(testContext(t), []string{"ROB_1", "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, s.Host(), data.Host)
	assert.Equal(t, 100, data.SpeedRatio)
	require.NotNil(t, data.Execution)
	assert.Equal(t, "stopped", data.Execution.State)
	assert.Contains(t, data.JointTargets, "ROB_1")
	assert.NotContains(t, data.JointTargets, "NOPE")
	assert.Contains(t, data.DynamicInfos, "ROB_1")
	require.Len(t, data.RecentElog, 2)
	assert.Equal(t, 42, data.RecentElog[0].SequenceNumber)
}

func TestAggregateAllDataWithoutElog(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)

	fc.failOnce("/rw/elog/0", 503)
	data, err := s.AggregateAllData(testContext(t), []string{"ROB_1"})
	require.NoError(t, err, "Журнал событий не должен ломать сводку")
	assert.Empty(t, data.RecentElog)
}

func TestStartRuntimePolling(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := s.StartRuntimePolling(ctx, 20*time.Millisecond, "ROB_1")

	select {
	case res := <-results:
		require.NoError(t, res.Err)
		require.NotNil(t, res.Data)
		assert.True(t, res.Data.Runtime.RWSConnected)
	case <-time.After(5 * time.Second):
		t.Fatal("Опрос не вернул результат")
	}

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-results:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Канал опроса не закрылся после отмены контекста")
		}
	}
}

func TestStartRuntimePollingDefaultsInterval(t *testing.T) {
	fc := newFakeController(t, false)
	s := fc.connect(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := s.StartRuntimePolling(ctx, 0, "ROB_1")

	select {
	case res := <-results:
		require.NoError(t, res.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("Опрос с нулевым интервалом не вернул результат")
	}
	cancel()
	for range results {
	}
}
