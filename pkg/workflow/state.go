package workflow

// Kind identifies which workflow state is active.
type Kind int

const (
	Idle Kind = iota
	LoadingPlugins
	Ready
	Submitting
	Succeeded
	Failed
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case LoadingPlugins:
		return "loading_plugins"
	case Ready:
		return "ready"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// User-facing messages
const (
	LoadPluginsFailedMessage = "Failed to load plugins. Check backend URL in Settings."
	ValidationMessage        = "Please choose a site and enter a query."

	businessFailurePrefix = "Error: "
	networkFailurePrefix  = "Request failed: "
)

// State is a snapshot of the workflow. The controller owns the live value;
// callers only ever see copies.
type State struct {
	Kind Kind

	// BaseURL is the normalized backend used by the last operation.
	BaseURL string

	// Plugins survive every transition after a successful load so that a
	// failed submission can be retried with the same selection.
	Plugins  []string
	Selected string

	// Succeeded
	Count   int
	FileURL string
	File    string

	// Failed
	Message string
}

// Busy reports whether an operation is in flight. Submission is disabled
// while Busy is true.
func (s State) Busy() bool {
	return s.Kind == LoadingPlugins || s.Kind == Submitting
}

// HasDownload reports whether a download link should be rendered.
func (s State) HasDownload() bool {
	return s.Kind == Succeeded && s.FileURL != ""
}

func (s State) clone() State {
	if s.Plugins != nil {
		plugins := make([]string, len(s.Plugins))
		copy(plugins, s.Plugins)
		s.Plugins = plugins
	}
	return s
}
