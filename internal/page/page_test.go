package page

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"budgetboard/internal/charts"
	"budgetboard/internal/fetchers"
	"budgetboard/internal/logger"
	"budgetboard/internal/mocks"
	"budgetboard/internal/models"
)

const (
	eventuallyTimeout = 2 * time.Second
	eventuallyTick    = 10 * time.Millisecond
)

func pieFixture() *models.PieDataset {
	return fetchers.NewDataNormalizer().NormalizeForPie(barFixture())
}

func barFixture() []models.BudgetRecord {
	return []models.BudgetRecord{
		{Title: "Food", Budget: 100},
		{Title: "Rent", Budget: 900},
	}
}

func statusError(path string) error {
	return &fetchers.NetworkError{URL: "http://localhost:3001" + path, Reason: fetchers.ReasonStatus, StatusCode: 500}
}

func newTestPage(t *testing.T, source BudgetSource) *Page {
	t.Helper()
	p := New(source, charts.EChartsPieBackend{}, logger.NewNop())
	t.Cleanup(p.Close)
	return p
}

func TestMountRendersBothCharts(t *testing.T) {
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).Return(pieFixture(), nil).Times(1)
	source.EXPECT().FetchBarData(gomock.Any()).Return(barFixture(), nil).Times(1)

	p := newTestPage(t, source)
	ctx := context.Background()
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Wait(context.Background()))

	snap, err := p.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Mounted)
	assert.Equal(t, charts.PieRendered, snap.PieState)
	assert.Contains(t, string(snap.PieContent), "Rent")
	assert.True(t, snap.HasBar())
	assert.Len(t, snap.BarRecords, 2)
	assert.Equal(t, 1, p.canvas.LiveHandles())
	assert.Len(t, p.container.SVG().Bars(), 2)
}

func TestPieFailureDoesNotBlockBar(t *testing.T) {
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).Return(nil, statusError("/budget"))
	source.EXPECT().FetchBarData(gomock.Any()).Return(barFixture(), nil)

	p := newTestPage(t, source)
	ctx := context.Background()
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Wait(context.Background()))

	snap, err := p.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, charts.PieEmpty, snap.PieState)
	assert.Nil(t, snap.PieContent)
	assert.True(t, snap.HasBar())
}

func TestBarFailureDoesNotBlockPie(t *testing.T) {
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).Return(pieFixture(), nil)
	source.EXPECT().FetchBarData(gomock.Any()).Return(nil, statusError("/new-budget-endpoint"))

	p := newTestPage(t, source)
	ctx := context.Background()
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Wait(context.Background()))

	snap, err := p.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, charts.PieRendered, snap.PieState)
	assert.False(t, snap.HasBar())
	assert.Empty(t, p.container.Children())
}

func TestFetchFailureIsLogged(t *testing.T) {
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).Return(nil, statusError("/budget"))
	source.EXPECT().FetchBarData(gomock.Any()).Return(barFixture(), nil)

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSONFormat, Output: &buf})
	p := New(source, charts.EChartsPieBackend{}, log)
	defer p.Close()

	require.NoError(t, p.Mount(context.Background()))
	require.NoError(t, p.Wait(context.Background()))
	_, err := p.Snapshot(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Failed to fetch budget data")
	assert.Contains(t, out, `"reason":"status"`)
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, `"chart":"pie"`)
}

func TestFetchesAreIndependent(t *testing.T) {
	release := make(chan struct{})
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).DoAndReturn(func(ctx context.Context) (*models.PieDataset, error) {
		<-release
		return pieFixture(), nil
	})
	barDone := make(chan struct{})
	source.EXPECT().FetchBarData(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.BudgetRecord, error) {
		defer close(barDone)
		return barFixture(), nil
	})

	p := newTestPage(t, source)
	ctx := context.Background()
	require.NoError(t, p.Mount(ctx))

	<-barDone
	require.Eventually(t, func() bool {
		snap, err := p.Snapshot(ctx)
		return err == nil && snap.HasBar() && snap.PieState == charts.PieEmpty
	}, eventuallyTimeout, eventuallyTick)

	close(release)
	require.NoError(t, p.Wait(context.Background()))

	snap, err := p.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, charts.PieRendered, snap.PieState)
}

func TestLateCompletionAfterUnmount(t *testing.T) {
	release := make(chan struct{})
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).DoAndReturn(func(ctx context.Context) (*models.PieDataset, error) {
		<-release
		return pieFixture(), nil
	})
	source.EXPECT().FetchBarData(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.BudgetRecord, error) {
		<-release
		return barFixture(), nil
	})

	p := newTestPage(t, source)
	ctx := context.Background()
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Unmount(ctx))

	close(release)
	require.NoError(t, p.Wait(context.Background()))

	snap, err := p.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Mounted)
	assert.Equal(t, charts.PieEmpty, snap.PieState)
	assert.False(t, snap.HasBar())
	assert.Equal(t, 0, p.canvas.LiveHandles())
	assert.NotNil(t, snap.PieData, "late pie data is kept for the next mount")
}

func TestRefreshReplacesPieHandle(t *testing.T) {
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).Return(pieFixture(), nil).Times(2)
	source.EXPECT().FetchBarData(gomock.Any()).Return(barFixture(), nil).Times(2)

	p := newTestPage(t, source)
	ctx := context.Background()
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Wait(context.Background()))
	first := p.pie.Handle()

	require.NoError(t, p.Refresh(ctx))
	require.NoError(t, p.Wait(context.Background()))

	_, err := p.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, first.Destroyed())
	assert.NotEqual(t, first.ID(), p.pie.Handle().ID())
	assert.Equal(t, 1, p.canvas.LiveHandles())
	assert.Len(t, p.container.Children(), 1)
}

func TestRefreshRequiresMount(t *testing.T) {
	p := newTestPage(t, mocks.NewMockBudgetSourceForTest(t))
	assert.ErrorIs(t, p.Refresh(context.Background()), ErrNotMounted)
}

func TestRemountRedrawsStoredPie(t *testing.T) {
	source := mocks.NewMockBudgetSourceForTest(t)
	gomock.InOrder(
		source.EXPECT().FetchPieData(gomock.Any()).Return(pieFixture(), nil),
		source.EXPECT().FetchPieData(gomock.Any()).Return(nil, statusError("/budget")),
	)
	source.EXPECT().FetchBarData(gomock.Any()).Return(barFixture(), nil).Times(2)

	p := newTestPage(t, source)
	ctx := context.Background()
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Unmount(ctx))
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Wait(context.Background()))

	snap, err := p.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, charts.PieRendered, snap.PieState)
	assert.Equal(t, 1, p.canvas.LiveHandles())
}

func TestMountTwiceIsNoop(t *testing.T) {
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).Return(pieFixture(), nil).Times(1)
	source.EXPECT().FetchBarData(gomock.Any()).Return(barFixture(), nil).Times(1)

	p := newTestPage(t, source)
	ctx := context.Background()
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Wait(context.Background()))
}

func TestClosedPage(t *testing.T) {
	p := newTestPage(t, mocks.NewMockBudgetSourceForTest(t))
	p.Close()
	p.Close()

	assert.True(t, errors.Is(p.Mount(context.Background()), ErrClosed))
	_, err := p.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestConcurrentRefreshAndWait(t *testing.T) {
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).Return(pieFixture(), nil).AnyTimes()
	source.EXPECT().FetchBarData(gomock.Any()).Return(barFixture(), nil).AnyTimes()

	p := newTestPage(t, source)
	ctx := context.Background()
	require.NoError(t, p.Mount(ctx))

	const workers, rounds = 8, 25
	errs := make(chan error, workers*rounds*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				errs <- p.Refresh(ctx)
				errs <- p.Wait(ctx)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.NoError(t, p.Wait(ctx))
	assert.Equal(t, 1, p.canvas.LiveHandles())
	assert.Len(t, p.container.Children(), 1)
}

func TestWaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).DoAndReturn(func(ctx context.Context) (*models.PieDataset, error) {
		<-release
		return pieFixture(), nil
	})
	source.EXPECT().FetchBarData(gomock.Any()).Return(barFixture(), nil)

	p := newTestPage(t, source)
	require.NoError(t, p.Mount(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, p.Wait(context.Background()))
}

func TestCloseDisposesPieHandle(t *testing.T) {
	source := mocks.NewMockBudgetSourceForTest(t)
	source.EXPECT().FetchPieData(gomock.Any()).Return(pieFixture(), nil)
	source.EXPECT().FetchBarData(gomock.Any()).Return(barFixture(), nil)

	p := newTestPage(t, source)
	ctx := context.Background()
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Wait(ctx))
	handle := p.pie.Handle()
	require.NotNil(t, handle)

	p.Close()

	assert.True(t, handle.Destroyed())
	assert.Equal(t, 0, p.canvas.LiveHandles())
	assert.False(t, p.canvas.Attached())
	assert.False(t, p.container.Attached())
	assert.ErrorIs(t, p.Wait(ctx), ErrClosed)
}
