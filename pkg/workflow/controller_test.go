package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sitescrape-go/pkg/backend"
	"sitescrape-go/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfig struct {
	backend string
	err     error
}

func (f *fakeConfig) Backend(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.backend == "" {
		return backend.DefaultBaseURL, nil
	}
	return f.backend, nil
}

type fakeBackend struct {
	mu sync.Mutex

	plugins    models.PluginList
	pluginsErr error
	listPanic  string

	result    models.ScrapeResult
	submitErr error
	panicMsg  string
	block     chan struct{}

	listCalls   []string
	submitCalls []models.ScrapeRequest
	submitURLs  []string
}

func (f *fakeBackend) ListPlugins(ctx context.Context, baseURL string) (models.PluginList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, baseURL)
	if f.listPanic != "" {
		panic(f.listPanic)
	}
	return f.plugins, f.pluginsErr
}

func (f *fakeBackend) SubmitScrape(ctx context.Context, baseURL string, req models.ScrapeRequest) (models.ScrapeResult, error) {
	f.mu.Lock()
	f.submitCalls = append(f.submitCalls, req)
	f.submitURLs = append(f.submitURLs, baseURL)
	block, panicMsg := f.block, f.panicMsg
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if panicMsg != "" {
		panic(panicMsg)
	}
	return f.result, f.submitErr
}

func (f *fakeBackend) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitCalls)
}

func readyController(t *testing.T, b *fakeBackend) *Controller {
	t.Helper()
	if b.plugins.Names == nil {
		b.plugins = models.PluginList{Names: []string{"google_maps", "indiamart"}}
	}
	c := NewController(&fakeConfig{}, b)
	require.NoError(t, c.Initialize(context.Background()))
	require.Equal(t, Ready, c.State().Kind)
	return c
}

func TestInitialize_UsesDefaultBackend(t *testing.T) {
	b := &fakeBackend{plugins: models.PluginList{Names: []string{"google_maps", "indiamart"}}}
	c := NewController(&fakeConfig{}, b)
	require.Equal(t, Idle, c.State().Kind)

	require.NoError(t, c.Initialize(context.Background()))

	state := c.State()
	assert.Equal(t, Ready, state.Kind)
	assert.Equal(t, []string{"http://localhost:10000"}, b.listCalls)
	assert.Equal(t, []string{"google_maps", "indiamart"}, state.Plugins)
	assert.Equal(t, "google_maps", state.Selected)
	assert.False(t, state.Busy())
}

func TestInitialize_NormalizesConfiguredBackend(t *testing.T) {
	b := &fakeBackend{plugins: models.PluginList{Names: []string{"a"}}}
	c := NewController(&fakeConfig{backend: " http://example.com/api/// "}, b)

	require.NoError(t, c.Initialize(context.Background()))
	assert.Equal(t, []string{"http://example.com/api"}, b.listCalls)
	assert.Equal(t, "http://example.com/api", c.State().BaseURL)
}

func TestInitialize_EmptyPluginListIsReady(t *testing.T) {
	b := &fakeBackend{plugins: models.PluginList{Names: []string{}}}
	c := NewController(&fakeConfig{}, b)

	require.NoError(t, c.Initialize(context.Background()))

	state := c.State()
	assert.Equal(t, Ready, state.Kind)
	assert.Empty(t, state.Plugins)
	assert.Empty(t, state.Selected)
	assert.Empty(t, state.Message)
}

func TestInitialize_NetworkErrorFails(t *testing.T) {
	b := &fakeBackend{pluginsErr: &backend.NetworkError{Type: backend.ErrorTypeNetwork, Op: "list plugins", Cause: errors.New("connection refused")}}
	c := NewController(&fakeConfig{}, b)

	require.NoError(t, c.Initialize(context.Background()))

	state := c.State()
	assert.Equal(t, Failed, state.Kind)
	assert.Equal(t, "Failed to load plugins. Check backend URL in Settings.", state.Message)
	assert.False(t, state.Busy())
	assert.Len(t, b.listCalls, 1, "no automatic retry")
}

func TestInitialize_ConfigErrorFails(t *testing.T) {
	b := &fakeBackend{}
	c := NewController(&fakeConfig{err: errors.New("bad toml")}, b)

	require.NoError(t, c.Initialize(context.Background()))

	state := c.State()
	assert.Equal(t, Failed, state.Kind)
	assert.Contains(t, state.Message, "bad toml")
	assert.Empty(t, b.listCalls)
}

func TestInitialize_ManualRetryAfterFailure(t *testing.T) {
	b := &fakeBackend{pluginsErr: errors.New("down")}
	c := NewController(&fakeConfig{}, b)
	require.NoError(t, c.Initialize(context.Background()))
	require.Equal(t, Failed, c.State().Kind)

	b.pluginsErr = nil
	b.plugins = models.PluginList{Names: []string{"my_site"}}
	require.NoError(t, c.Initialize(context.Background()))
	assert.Equal(t, Ready, c.State().Kind)
	assert.Equal(t, "my_site", c.State().Selected)
}

func TestValidate(t *testing.T) {
	c := readyController(t, &fakeBackend{})

	invalid := []Input{
		{Site: "", Query: "coffee"},
		{Site: "google_maps", Query: ""},
		{Site: "google_maps", Query: "   \t"},
		{Site: "unknown_site", Query: "coffee"},
	}
	for _, in := range invalid {
		_, err := c.Validate(in)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "input %+v", in)
		assert.Equal(t, "Please choose a site and enter a query.", vErr.Message)
	}

	req, err := c.Validate(Input{Site: "google_maps", Query: "  coffee shops  ", Limit: "10"})
	require.NoError(t, err)
	assert.Equal(t, "coffee shops", req.Query)
	require.NotNil(t, req.Limit)
	assert.Equal(t, 10, *req.Limit)
	assert.Equal(t, Ready, c.State().Kind, "validation never changes state")
}

func TestParseLimit(t *testing.T) {
	valid := map[string]int{
		"25":       25,
		" 7 ":      7,
		"12abc":    12,
		"3.9":      3,
		"+4":       4,
		"00010":    10,
		"5 rows":   5,
	}
	for in, want := range valid {
		got := parseLimit(in)
		require.NotNil(t, got, "input %q", in)
		assert.Equal(t, want, *got, "input %q", in)
	}

	for _, in := range []string{"", "abc", "NaN", "-5", "0", "Infinity", "99999999999999999999"} {
		assert.Nil(t, parseLimit(in), "input %q", in)
	}
}

func TestRun_InvalidInputNeverCallsBackend(t *testing.T) {
	b := &fakeBackend{}
	c := readyController(t, b)

	for _, in := range []Input{{}, {Site: "google_maps"}, {Query: "coffee"}, {Site: "google_maps", Query: " "}} {
		err := c.Run(context.Background(), in)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	}

	assert.Zero(t, b.submitCount())
	assert.Equal(t, Ready, c.State().Kind)
}

func TestSubmit_SuccessWithoutFileURL(t *testing.T) {
	b := &fakeBackend{result: models.ScrapeResult{Success: true, Count: 5}}
	c := readyController(t, b)

	require.NoError(t, c.Run(context.Background(), Input{Site: "google_maps", Query: "coffee"}))

	state := c.State()
	assert.Equal(t, Succeeded, state.Kind)
	assert.Equal(t, 5, state.Count)
	assert.Empty(t, state.FileURL)
	assert.False(t, state.HasDownload(), "no download link without file_url")
	assert.False(t, state.Busy())
	assert.Nil(t, b.submitCalls[0].Limit)
}

func TestSubmit_SuccessWithFileURL(t *testing.T) {
	b := &fakeBackend{result: models.ScrapeResult{Success: true, Count: 3, FileURL: "http://b/static/x.csv", File: "static/x.csv"}}
	c := readyController(t, b)

	require.NoError(t, c.Run(context.Background(), Input{Site: "indiamart", Query: "steel", Limit: "3"}))

	state := c.State()
	assert.Equal(t, Succeeded, state.Kind)
	assert.True(t, state.HasDownload())
	assert.Equal(t, "static/x.csv", state.File)
	assert.Equal(t, "indiamart", b.submitCalls[0].Site)
}

func TestSubmit_BusinessFailure(t *testing.T) {
	b := &fakeBackend{result: models.ScrapeResult{Success: false, Message: "No data scraped."}}
	c := readyController(t, b)

	require.NoError(t, c.Run(context.Background(), Input{Site: "google_maps", Query: "coffee"}))

	state := c.State()
	assert.Equal(t, Failed, state.Kind)
	assert.Equal(t, "Error: No data scraped.", state.Message)
	assert.False(t, state.Busy())
}

func TestSubmit_NetworkFailureClearsBusy(t *testing.T) {
	for _, prior := range []models.ScrapeResult{
		{Success: true, Count: 1},
		{Success: false, Message: "x"},
	} {
		b := &fakeBackend{result: prior}
		c := readyController(t, b)
		require.NoError(t, c.Run(context.Background(), Input{Site: "google_maps", Query: "q"}))

		b.submitErr = &backend.NetworkError{Type: backend.ErrorTypeNetwork, Op: "submit scrape", Cause: errors.New("connection refused")}
		require.NoError(t, c.Run(context.Background(), Input{Site: "google_maps", Query: "q"}))

		state := c.State()
		assert.Equal(t, Failed, state.Kind)
		assert.Equal(t, "Request failed: connection refused", state.Message)
		assert.False(t, state.Busy())
		assert.False(t, c.Busy())
	}
}

func TestSubmit_PanicClearsBusy(t *testing.T) {
	b := &fakeBackend{panicMsg: "boom"}
	c := readyController(t, b)

	require.NotPanics(t, func() {
		_ = c.Run(context.Background(), Input{Site: "google_maps", Query: "q"})
	})

	state := c.State()
	assert.Equal(t, Failed, state.Kind)
	assert.Equal(t, "Request failed: boom", state.Message)
	assert.False(t, state.Busy())
}

func TestInitialize_PanicFails(t *testing.T) {
	b := &fakeBackend{listPanic: "boom"}
	c := NewController(&fakeConfig{}, b)

	require.NotPanics(t, func() {
		assert.NoError(t, c.Initialize(context.Background()))
	})

	state := c.State()
	assert.Equal(t, Failed, state.Kind)
	assert.Equal(t, LoadPluginsFailedMessage, state.Message)
	assert.Equal(t, "http://localhost:10000", state.BaseURL)
	assert.False(t, state.Busy())

	b.mu.Lock()
	b.listPanic = ""
	b.plugins = models.PluginList{Names: []string{"google_maps"}}
	b.mu.Unlock()

	require.NoError(t, c.Initialize(context.Background()))
	assert.Equal(t, Ready, c.State().Kind)
	assert.Equal(t, "google_maps", c.State().Selected)
}

func TestSubmit_ResubmitAfterFailure(t *testing.T) {
	b := &fakeBackend{result: models.ScrapeResult{Success: false, Message: "nope"}}
	c := readyController(t, b)
	require.NoError(t, c.Run(context.Background(), Input{Site: "google_maps", Query: "q"}))
	require.Equal(t, Failed, c.State().Kind)

	b.result = models.ScrapeResult{Success: true, Count: 2, FileURL: "http://f"}
	require.NoError(t, c.Run(context.Background(), Input{Site: "google_maps", Query: "q"}))
	assert.Equal(t, Succeeded, c.State().Kind)
	assert.Empty(t, c.State().Message)
}

func TestSubmit_RejectsSecondInFlight(t *testing.T) {
	b := &fakeBackend{
		result: models.ScrapeResult{Success: true, Count: 1},
		block:  make(chan struct{}),
	}
	c := readyController(t, b)
	req := models.ScrapeRequest{Site: "google_maps", Query: "q"}

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background(), req) }()

	require.Eventually(t, func() bool { return c.State().Kind == Submitting }, time.Second, 5*time.Millisecond)
	assert.True(t, c.Busy())

	assert.ErrorIs(t, c.Submit(context.Background(), req), ErrBusy)
	assert.ErrorIs(t, c.Initialize(context.Background()), ErrBusy)

	close(b.block)
	require.NoError(t, <-done)
	assert.Equal(t, Succeeded, c.State().Kind)
	assert.Equal(t, 1, b.submitCount(), "the rejected call must not be queued")
}

func TestSubmit_BeforeInitialize(t *testing.T) {
	c := NewController(&fakeConfig{}, &fakeBackend{})
	err := c.Submit(context.Background(), models.ScrapeRequest{Site: "a", Query: "b"})
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, Idle, c.State().Kind)
}

func TestSubmit_RereadsBackend(t *testing.T) {
	cfg := &fakeConfig{backend: "http://one"}
	b := &fakeBackend{plugins: models.PluginList{Names: []string{"a"}}, result: models.ScrapeResult{Success: true}}
	c := NewController(cfg, b)
	require.NoError(t, c.Initialize(context.Background()))

	cfg.backend = "http://two/"
	require.NoError(t, c.Run(context.Background(), Input{Site: "a", Query: "q"}))
	assert.Equal(t, []string{"http://two"}, b.submitURLs)
}

func TestSelectAndOnChange(t *testing.T) {
	c := readyController(t, &fakeBackend{result: models.ScrapeResult{Success: true}})

	var kinds []Kind
	c.OnChange(func(s State) { kinds = append(kinds, s.Kind) })

	assert.False(t, c.Select("missing"))
	assert.True(t, c.Select("indiamart"))
	assert.Equal(t, "indiamart", c.State().Selected)

	require.NoError(t, c.Run(context.Background(), Input{Site: "indiamart", Query: "q"}))
	assert.Equal(t, []Kind{Ready, Submitting, Submitting, Succeeded}, kinds)
}

func TestStateSnapshotIsACopy(t *testing.T) {
	c := readyController(t, &fakeBackend{})
	s := c.State()
	s.Plugins[0] = "mutated"
	assert.Equal(t, "google_maps", c.State().Plugins[0])
}
