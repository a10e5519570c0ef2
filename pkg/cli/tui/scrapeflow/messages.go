package scrapeflow

import "sitescrape-go/pkg/models"

// InitDoneMsg is emitted when a plugin (re)load finished
type InitDoneMsg struct {
	Err error // only set when the load was rejected as busy
}

// SubmitDoneMsg is emitted when a scrape submission finished
type SubmitDoneMsg struct {
	Err error // only set when the submission was rejected
}

// DownloadDoneMsg is emitted when the CSV download finished
type DownloadDoneMsg struct {
	Path string
	Err  error
}

// PreviewLoadedMsg is emitted when preview rows have been fetched
type PreviewLoadedMsg struct {
	File    string
	Preview models.TablePreview
	Err     error
}

// ClosePreviewMsg is emitted when the preview pane is dismissed
type ClosePreviewMsg struct{}

// OpenSettingsMsg asks the app shell to show the settings screen
type OpenSettingsMsg struct{}

// BackToMenuMsg asks the app shell to return to the main menu
type BackToMenuMsg struct{}

// SettingsLoadedMsg carries the stored backend URL
type SettingsLoadedMsg struct {
	Backend string
	Err     error
}

// SettingsSavedMsg is emitted after a save attempt
type SettingsSavedMsg struct {
	Backend string
	Saved   bool
	Err     error
}

// HideSavedMsg clears the "Saved ✓" notice; Seq must match the latest save
type HideSavedMsg struct {
	Seq int
}
