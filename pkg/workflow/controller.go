package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sitescrape-go/pkg/backend"
	"sitescrape-go/pkg/cli/logger"
	"sitescrape-go/pkg/models"
)

var (
	// ErrBusy is returned when an operation is already in flight.
	// Requests are rejected, never queued.
	ErrBusy = errors.New("an operation is already in progress")

	// ErrNotReady is returned by Submit before plugins were loaded.
	ErrNotReady = errors.New("plugins have not been loaded")
)

// BackendSource provides the configured backend base URL.
type BackendSource interface {
	Backend(ctx context.Context) (string, error)
}

// Backend is the subset of the backend client the workflow drives.
type Backend interface {
	ListPlugins(ctx context.Context, baseURL string) (models.PluginList, error)
	SubmitScrape(ctx context.Context, baseURL string, req models.ScrapeRequest) (models.ScrapeResult, error)
}

// Controller is the state machine for one scrape interaction:
//
//	Idle --Initialize--> LoadingPlugins --ok--> Ready
//	                                    \--err--> Failed
//	Ready/Failed/Succeeded --Submit--> Submitting --success--> Succeeded
//	                                              \--failure--> Failed
//
// All methods are safe for concurrent use; state is only mutated here.
type Controller struct {
	config  BackendSource
	backend Backend

	mu       sync.Mutex
	state    State
	onChange func(State)
}

// NewController creates a controller in the Idle state.
func NewController(config BackendSource, b Backend) *Controller {
	return &Controller{
		config:  config,
		backend: b,
		state:   State{Kind: Idle},
	}
}

// OnChange registers fn to receive a snapshot after every transition.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Busy reports whether an operation is in flight.
func (c *Controller) Busy() bool {
	return c.State().Busy()
}

// Select changes the selected site. Unknown names are ignored.
func (c *Controller) Select(site string) bool {
	c.mu.Lock()
	if !(models.PluginList{Names: c.state.Plugins}).Contains(site) {
		c.mu.Unlock()
		return false
	}
	c.state.Selected = site
	snapshot, fn := c.state.clone(), c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
	return true
}

// Initialize loads the plugin list from the configured backend. The outcome
// lands in the state; the returned error is only set when the call was
// rejected because another operation is running.
func (c *Controller) Initialize(ctx context.Context) error {
	if err := c.begin(LoadingPlugins, Idle, Ready, Succeeded, Failed); err != nil {
		return err
	}

	baseURL, err := c.baseURL(ctx)
	if err != nil {
		logger.LogError(err, "initialize: failed to read backend setting")
		c.transition(func(s *State) {
			s.Kind = Failed
			s.Message = "Failed to read settings: " + err.Error()
		})
		return nil
	}

	// A panic in the backend call must not leave the controller busy.
	defer func() {
		if r := recover(); r != nil {
			logger.LogError(fmt.Errorf("%v", r), "initialize: recovered panic")
			c.failPluginLoad(baseURL)
		}
	}()

	logger.Log("initialize: loading plugins from %s", baseURL)
	plugins, err := c.backend.ListPlugins(ctx, baseURL)
	if err != nil {
		logger.LogError(err, "initialize: failed to load plugins")
		c.failPluginLoad(baseURL)
		return nil
	}

	c.transition(func(s *State) {
		s.Kind = Ready
		s.BaseURL = baseURL
		s.Plugins = plugins.Names
		s.Selected = ""
		if len(plugins.Names) > 0 {
			s.Selected = plugins.Names[0]
		}
		s.Message = ""
	})
	return nil
}

// Submit sends req to the backend. It is accepted from Ready, Failed and
// Succeeded; a second call while a submission is in flight gets ErrBusy.
// As with Initialize, the outcome is reported through the state.
func (c *Controller) Submit(ctx context.Context, req models.ScrapeRequest) error {
	if err := c.begin(Submitting, Ready, Failed, Succeeded); err != nil {
		return err
	}

	var (
		result models.ScrapeResult
		err    error
	)
	// The busy flag must clear on every path, including a panic in the backend call.
	defer func() {
		if r := recover(); r != nil {
			logger.LogError(fmt.Errorf("%v", r), "submit: recovered panic")
			c.finishSubmit(models.ScrapeResult{}, &backend.NetworkError{
				Type:    backend.ErrorTypeNetwork,
				Op:      "submit scrape",
				Message: "request aborted",
				Cause:   fmt.Errorf("%v", r),
			})
		}
	}()

	baseURL, cfgErr := c.baseURL(ctx)
	if cfgErr != nil {
		err = fmt.Errorf("failed to read settings: %w", cfgErr)
	} else {
		c.transition(func(s *State) { s.BaseURL = baseURL })
		result, err = c.backend.SubmitScrape(ctx, baseURL, req)
	}
	c.finishSubmit(result, err)
	return nil
}

// Run validates in and submits it. A validation failure is returned as a
// *ValidationError and leaves the state untouched.
func (c *Controller) Run(ctx context.Context, in Input) error {
	req, err := c.Validate(in)
	if err != nil {
		return err
	}
	return c.Submit(ctx, req)
}

func (c *Controller) failPluginLoad(baseURL string) {
	c.transition(func(s *State) {
		s.Kind = Failed
		s.BaseURL = baseURL
		s.Plugins = nil
		s.Selected = ""
		s.Message = LoadPluginsFailedMessage
	})
}

func (c *Controller) finishSubmit(result models.ScrapeResult, err error) {
	c.transition(func(s *State) {
		s.Count = 0
		s.FileURL = ""
		s.File = ""
		s.Message = ""

		switch {
		case err != nil:
			s.Kind = Failed
			s.Message = networkFailurePrefix + errorDetail(err)
		case !result.Success:
			s.Kind = Failed
			s.Message = businessFailurePrefix + result.Message
		default:
			s.Kind = Succeeded
			s.Count = result.Count
			s.FileURL = result.FileURL
			s.File = result.File
		}
	})
}

// begin moves into the busy state next if the current state is one of from.
func (c *Controller) begin(next Kind, from ...Kind) error {
	c.mu.Lock()
	current := c.state.Kind
	if c.state.Busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	allowed := false
	for _, k := range from {
		if current == k {
			allowed = true
			break
		}
	}
	if !allowed {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.state.Kind = next
	c.state.Message = ""
	snapshot, fn := c.state.clone(), c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
	return nil
}

func (c *Controller) transition(apply func(s *State)) {
	c.mu.Lock()
	apply(&c.state)
	snapshot, fn := c.state.clone(), c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

func (c *Controller) baseURL(ctx context.Context) (string, error) {
	raw, err := c.config.Backend(ctx)
	if err != nil {
		return "", err
	}
	baseURL := backend.NormalizeBaseURL(raw)
	if baseURL == "" {
		baseURL = backend.DefaultBaseURL
	}
	return baseURL, nil
}

func errorDetail(err error) string {
	var netErr *backend.NetworkError
	if errors.As(err, &netErr) {
		return netErr.Detail()
	}
	return err.Error()
}
