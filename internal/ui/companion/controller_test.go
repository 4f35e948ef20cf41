package companion

import (
	"errors"
	"sync"
	"testing"
	"time"

	"focusclock/internal/bus"
	"focusclock/internal/core/model"
	"focusclock/internal/storage"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu       sync.Mutex
	position *model.WindowPosition
	saves    int
	saveErr  error
}

func (store *memoryStore) Load() (model.WindowPosition, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.position == nil {
		return model.DefaultWindowPosition(), nil
	}
	return *store.position, nil
}

func (store *memoryStore) Save(position model.WindowPosition) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.saves++
	if store.saveErr != nil {
		return store.saveErr
	}
	store.position = &position
	return nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	channels []bus.Channel
}

func (publisher *recordingPublisher) Publish(channel bus.Channel, _ any) {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	publisher.channels = append(publisher.channels, channel)
}

func (publisher *recordingPublisher) sent() []bus.Channel {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	return append([]bus.Channel(nil), publisher.channels...)
}

type fakePlacement struct {
	mu      sync.Mutex
	movable bool
	moves   []model.WindowPosition
}

func (placement *fakePlacement) Pin(fyne.Window) {}

func (placement *fakePlacement) MoveTo(_ fyne.Window, position model.WindowPosition) {
	placement.mu.Lock()
	defer placement.mu.Unlock()
	placement.moves = append(placement.moves, position)
}

func (placement *fakePlacement) WorkArea() (model.Rect, bool) {
	return model.Rect{}, false
}

func (placement *fakePlacement) Movable() bool {
	return placement.movable
}

// splashApp counts how windows are created, with a driver that supports
// undecorated windows.
type splashApp struct {
	fyne.App
	windows  int
	splashes int
}

func (app *splashApp) NewWindow(title string) fyne.Window {
	app.windows++
	return app.App.NewWindow(title)
}

func (app *splashApp) Driver() fyne.Driver {
	return splashDriver{Driver: app.App.Driver(), splashes: &app.splashes}
}

type splashDriver struct {
	fyne.Driver
	splashes *int
}

func (driver splashDriver) CreateSplashWindow() fyne.Window {
	*driver.splashes++
	return driver.Driver.CreateWindow("")
}

func newTestController(t *testing.T, store PositionStore) (*Controller, *recordingPublisher) {
	t.Helper()
	return newTestControllerWith(t, store, &fakePlacement{movable: true})
}

func newTestControllerWith(t *testing.T, store PositionStore, placement *fakePlacement) (*Controller, *recordingPublisher) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)
	publisher := &recordingPublisher{}
	return NewController(app, placement, store, publisher), publisher
}

func display(time string, running bool) model.Display {
	return model.Display{Time: time, Label: "Focus time", Progress: 1, IsRunning: running, Started: running}
}

func TestOpenCreatesSingleWindow(t *testing.T) {
	controller, _ := newTestController(t, &memoryStore{})

	controller.Open(display("25:00", false))
	first, ok := controller.Current()
	require.True(t, ok)

	controller.Open(display("24:10", true))
	second, ok := controller.Current()
	require.True(t, ok)

	assert.Same(t, first, second)
	assert.Equal(t, "24:10", second.Display().Time)
	assert.Equal(t, "24:10", second.TimeText())
	assert.True(t, second.pauseButton.Visible())
	assert.False(t, second.playButton.Visible())
}

func TestUpdateWithoutWindowIsNoop(t *testing.T) {
	controller, _ := newTestController(t, &memoryStore{})

	controller.Update(display("10:00", true))

	assert.False(t, controller.IsOpen())
}

func TestUpdatePushesDisplay(t *testing.T) {
	controller, _ := newTestController(t, &memoryStore{})
	controller.Open(display("25:00", true))

	controller.Update(model.Display{Time: "04:59", Label: "Break time", IsRunning: true, Started: true})

	mini, ok := controller.Current()
	require.True(t, ok)
	assert.Equal(t, "04:59", mini.TimeText())
	assert.Equal(t, "Break time", mini.phaseLabel.Text)
}

func TestOpenUsesStoredPosition(t *testing.T) {
	stored := model.WindowPosition{X: 640, Y: 20}
	controller, _ := newTestController(t, &memoryStore{position: &stored})

	controller.Open(display("25:00", false))

	assert.Equal(t, stored, controller.Position())
}

func TestCloseSavesPositionAndReleases(t *testing.T) {
	store := &memoryStore{}
	controller, _ := newTestController(t, store)
	controller.Open(display("25:00", false))
	controller.MoveTo(model.WindowPosition{X: 500, Y: 300})
	savesBeforeClose := store.saves

	controller.Close()

	assert.False(t, controller.IsOpen())
	assert.Equal(t, savesBeforeClose+1, store.saves)
	position, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, model.WindowPosition{X: 500, Y: 300}, position)

	controller.Close()
	assert.Equal(t, savesBeforeClose+1, store.saves)
}

func TestPositionSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	controller, _ := newTestController(t, storage.NewPositionStore(dir))
	controller.Open(display("25:00", false))
	controller.MoveTo(model.WindowPosition{X: 500, Y: 300})
	controller.Close()

	restarted, _ := newTestController(t, storage.NewPositionStore(dir))
	restarted.Open(display("25:00", false))

	assert.Equal(t, model.WindowPosition{X: 500, Y: 300}, restarted.Position())
}

func TestDragMovesAndPersists(t *testing.T) {
	store := &memoryStore{}
	controller, _ := newTestController(t, store)
	controller.Open(display("25:00", false))

	controller.handleDrag(15, -5)
	controller.handleDrag(0.2, 0.2)

	assert.Equal(t, model.WindowPosition{X: 115, Y: 95}, controller.Position())
	assert.Equal(t, 1, store.saves)
}

func TestDragSeriesFollowsCursor(t *testing.T) {
	store := &memoryStore{}
	placement := &fakePlacement{movable: true}
	controller, _ := newTestControllerWith(t, store, placement)
	controller.Open(display("25:00", false))
	mini, ok := controller.Current()
	require.True(t, ok)

	// The cursor grabs the window at (30, 40) and travels across the screen.
	// Event positions are window relative, so every move of the window
	// shifts the next reported position back.
	grab := fyne.NewPos(30, 40)
	cursor := fyne.NewPos(100+grab.X, 100+grab.Y)
	last := grab
	for _, step := range []fyne.Delta{{DX: 6, DY: 0}, {DX: 6, DY: 2}, {DX: 0.4, DY: 0.4}, {DX: 0.4, DY: 0.4}, {DX: 0.4, DY: 0.4}, {DX: -20, DY: 11}} {
		cursor = cursor.AddXY(step.DX, step.DY)
		window := controller.Position()
		position := fyne.NewPos(cursor.X-float32(window.X), cursor.Y-float32(window.Y))
		mini.handle.Dragged(&fyne.DragEvent{
			PointEvent: fyne.PointEvent{Position: position},
			Dragged:    fyne.NewDelta(position.X-last.X, position.Y-last.Y),
		})
		last = position
	}
	mini.handle.DragEnd()

	assert.Equal(t, model.WindowPosition{X: 94, Y: 114}, controller.Position())
	assert.Equal(t, controller.Position(), placement.moves[len(placement.moves)-1])
	position, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, controller.Position(), position)
}

func TestDragWithoutNativeMoveIsNotPersisted(t *testing.T) {
	store := &memoryStore{}
	controller, _ := newTestControllerWith(t, store, &fakePlacement{movable: false})
	controller.Open(display("25:00", false))

	controller.handleDrag(15, -5)

	assert.Equal(t, model.DefaultWindowPosition(), controller.Position())
	assert.Equal(t, 0, store.saves)
}

func TestOpenUsesSplashWindowOnly(t *testing.T) {
	app := &splashApp{App: test.NewApp()}
	t.Cleanup(app.Quit)
	controller := NewController(app, &fakePlacement{movable: true}, &memoryStore{}, &recordingPublisher{})

	for i := 0; i < 3; i++ {
		controller.Open(display("25:00", false))
		controller.Close()
	}

	assert.Equal(t, 3, app.splashes)
	assert.Equal(t, 0, app.windows)
}

func TestSaveFailureIsIgnored(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("disk full")}
	controller, _ := newTestController(t, store)
	controller.Open(display("25:00", false))

	assert.NotPanics(t, func() {
		controller.MoveTo(model.WindowPosition{X: 1, Y: 1})
		controller.Close()
	})
	assert.Equal(t, model.WindowPosition{X: 1, Y: 1}, controller.Position())
}

func TestCommandsArePublished(t *testing.T) {
	controller, publisher := newTestController(t, &memoryStore{})
	controller.Open(display("25:00", false))
	mini, ok := controller.Current()
	require.True(t, ok)

	test.Tap(mini.playButton)
	assert.True(t, mini.pauseButton.Visible())
	test.Tap(mini.pauseButton)
	test.Tap(mini.skipButton)
	test.Tap(mini.closeButton)

	assert.Equal(t, []bus.Channel{
		bus.ChannelTimerStart,
		bus.ChannelTimerPause,
		bus.ChannelTimerSkip,
		bus.ChannelCompanionClose,
	}, publisher.sent())
}

func TestAttachFollowsBus(t *testing.T) {
	controller, _ := newTestController(t, &memoryStore{})
	messageBus := bus.New(16)
	t.Cleanup(messageBus.Close)
	controller.Attach(messageBus)

	messageBus.Publish(bus.ChannelCompanionOpen, display("25:00", false))
	require.Eventually(t, controller.IsOpen, time.Second, 5*time.Millisecond)

	messageBus.Publish(bus.ChannelCompanionUpdate, display("12:34", true))
	require.Eventually(t, func() bool {
		mini, ok := controller.Current()
		return ok && mini.TimeText() == "12:34"
	}, time.Second, 5*time.Millisecond)

	messageBus.Publish(bus.ChannelCompanionClose, nil)
	require.Eventually(t, func() bool { return !controller.IsOpen() }, time.Second, 5*time.Millisecond)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "25 mins", formatTime(model.Display{Time: "25:00"}))
	assert.Equal(t, "5 mins", formatTime(model.Display{Time: "05:00"}))
	assert.Equal(t, "24:59", formatTime(model.Display{Time: "24:59", IsRunning: true}))
	assert.Equal(t, "24:59", formatTime(model.Display{Time: "24:59", Started: true}))
	assert.Equal(t, "soon", formatTime(model.Display{Time: "soon"}))
}
