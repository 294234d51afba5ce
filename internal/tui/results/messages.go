package results

import "github.com/joacominatel/perruls/internal/export"

// NoticeMsg asks the app to show a line in the status bar.
type NoticeMsg struct {
	Text string
	Err  bool
}

// ExportRequestMsg asks the app to prompt for an export file name.
type ExportRequestMsg struct {
	Scope export.Scope
}

// PageSizeRequestMsg asks the app to prompt for a new page size.
type PageSizeRequestMsg struct{}
