package extension

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/cdproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/runyx-bridge/internal/browser"
)

type mockDriver struct {
	mock.Mock
}

func (m *mockDriver) LoadUnpacked(ctx context.Context, path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

func (m *mockDriver) Targets(ctx context.Context) ([]browser.TargetInfo, error) {
	args := m.Called()
	targets, _ := args.Get(0).([]browser.TargetInfo)
	return targets, args.Error(1)
}

func makeExtension(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"),
		[]byte(`{"name":"Runyx","version":"1.0.0","manifest_version":3,"background":{"service_worker":"background.js"}}`), 0o644))
	return dir
}

func workerTarget(dir string) browser.TargetInfo {
	abs, _ := filepath.Abs(dir)
	return browser.TargetInfo{TargetID: "sw", Type: "service_worker", URL: OriginURL(ID(abs)) + "background.js"}
}

func fastActivator(dir string) *Activator {
	return &Activator{ExtensionPath: dir, Timeout: 300 * time.Millisecond, PollInterval: 10 * time.Millisecond}
}

func TestID(t *testing.T) {
	assert.Equal(t, "cjcafkjldmogmdbpjbfnkjlikbndfala", ID("/opt/runyx/extension"))
	assert.Len(t, ID("/anything"), 32)
	assert.Regexp(t, `^[a-p]{32}$`, ID(`C:\ext`))
}

func TestActivateAlreadyRunning(t *testing.T) {
	dir := makeExtension(t)
	driver := new(mockDriver)
	driver.On("Targets").Return([]browser.TargetInfo{{Type: "page", URL: "about:blank"}, workerTarget(dir)}, nil).Once()

	ok, err := fastActivator(dir).Activate(context.Background(), driver)
	require.NoError(t, err)
	assert.True(t, ok)
	driver.AssertNotCalled(t, "LoadUnpacked", mock.Anything)
	driver.AssertExpectations(t)
}

func TestActivateLoadsUnpacked(t *testing.T) {
	dir := makeExtension(t)
	abs, _ := filepath.Abs(dir)

	driver := new(mockDriver)
	driver.On("Targets").Return([]browser.TargetInfo{}, nil).Once()
	driver.On("LoadUnpacked", abs).Return("", nil).Once()
	driver.On("Targets").Return([]browser.TargetInfo{workerTarget(dir)}, nil)

	ok, err := fastActivator(dir).Activate(context.Background(), driver)
	require.NoError(t, err)
	assert.True(t, ok)
	driver.AssertExpectations(t)
}

func TestActivateUsesAssignedID(t *testing.T) {
	dir := makeExtension(t)
	driver := new(mockDriver)
	driver.On("Targets").Return([]browser.TargetInfo{}, nil).Once()
	driver.On("LoadUnpacked", mock.Anything).Return("abcdefghijklmnopabcdefghijklmnop", nil).Once()
	driver.On("Targets").Return([]browser.TargetInfo{{Type: "service_worker", URL: "chrome-extension://abcdefghijklmnopabcdefghijklmnop/sw.js"}}, nil)

	ok, err := fastActivator(dir).Activate(context.Background(), driver)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestActivateTimesOut(t *testing.T) {
	dir := makeExtension(t)
	driver := new(mockDriver)
	driver.On("Targets").Return([]browser.TargetInfo{}, nil)
	driver.On("LoadUnpacked", mock.Anything).
		Return("", &cdproto.Error{Code: -32601, Message: "method not found"})

	ok, err := fastActivator(dir).Activate(context.Background(), driver)
	assert.False(t, ok)

	var actErr *ActivationError
	require.ErrorAs(t, err, &actErr)
	assert.ErrorIs(t, err, ErrNotActivated)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotEmpty(t, actErr.ExtensionID)
}

func TestActivateMissingManifest(t *testing.T) {
	driver := new(mockDriver)
	ok, err := fastActivator(t.TempDir()).Activate(context.Background(), driver)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrManifest)
	driver.AssertNotCalled(t, "Targets")
}

func TestReadManifestInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(`{"version":"1"}`), 0o644))
	_, err := ReadManifest(dir)
	assert.ErrorIs(t, err, ErrManifest)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(`{`), 0o644))
	_, err = ReadManifest(dir)
	assert.ErrorIs(t, err, ErrManifest)
}
