package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Degagemain/degage-sub000/internal/simulation/metrics"
	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	id "github.com/Degagemain/degage-sub000/pkg/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	runs   []*models.Run
	err    error
	block  chan struct{}
	closed bool
}

func (r *recordingPublisher) Publish(_ context.Context, run *models.Run) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return r.err
}

func (r *recordingPublisher) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

func newRun(code models.ResultCode) *models.Run {
	res := models.NewResult()
	res.ResultCode = code
	res.Figures.KmCost = 0.32
	return &models.Run{
		ID:        id.NewRunID(),
		Input:     models.RunInput{TownID: "gent", FuelTypeID: "diesel"},
		Result:    *res,
		Locale:    "en",
		CreatedAt: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewEvent(t *testing.T) {
	run := newRun(models.ResultCategoryA)

	payload, err := NewEvent(run).Marshal()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, EventType, decoded["type"])
	assert.Equal(t, run.ID.String(), decoded["run_id"])
	assert.Equal(t, "CATEGORY_A", decoded["result_code"])
	assert.Equal(t, "gent", decoded["town_id"])
	assert.InDelta(t, 0.32, decoded["km_cost"], 1e-9)
	assert.NotContains(t, decoded, "rejection_reason")
}

func TestAsyncPublisher_DeliversAndDrainsOnClose(t *testing.T) {
	next := &recordingPublisher{}
	pub := NewAsync(next, 10)

	for range 5 {
		require.NoError(t, pub.Publish(context.Background(), newRun(models.ResultCategoryB)))
	}
	pub.Close()

	assert.Equal(t, 5, next.count())
	assert.True(t, next.closed)
}

func TestAsyncPublisher_DropsWhenFull(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer(reg)
	next := &recordingPublisher{block: make(chan struct{})}
	pub := NewAsync(next, 1, WithAsyncMetrics(m))

	// The first run is picked up by the worker and blocks, the second fills
	// the buffer, the rest are dropped.
	require.NoError(t, pub.Publish(context.Background(), newRun(models.ResultNotOK)))
	require.Eventually(t, func() bool { return len(pub.queue) == 0 }, time.Second, 5*time.Millisecond)
	for range 3 {
		require.NoError(t, pub.Publish(context.Background(), newRun(models.ResultNotOK)))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.PublishFailures), 1e-9)
	close(next.block)
	pub.Close()
	assert.Equal(t, 2, next.count())
}

func TestAsyncPublisher_CountsDeliveryFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer(reg)
	next := &recordingPublisher{err: errors.New("broker down")}
	pub := NewAsync(next, 4, WithAsyncMetrics(m))

	require.NoError(t, pub.Publish(context.Background(), newRun(models.ResultManualReview)))
	pub.Close()

	assert.InDelta(t, 1, testutil.ToFloat64(m.PublishFailures), 1e-9)
}

func TestAsyncPublisher_PublishAfterCloseIsDropped(t *testing.T) {
	next := &recordingPublisher{}
	pub := NewAsync(next, 4)
	pub.Close()

	require.NoError(t, pub.Publish(context.Background(), newRun(models.ResultCategoryA)))
	pub.Close()
	assert.Equal(t, 0, next.count())
}

func TestNewKafka_Validation(t *testing.T) {
	_, err := NewKafka(nil, "simulation.completed")
	require.Error(t, err)

	_, err = NewKafka([]string{"localhost:9092"}, "")
	require.Error(t, err)
}
