package ui

// Progress creates progress indicators for long-running work.
type Progress interface {
	// Start returns a determinate bar that completes after total steps.
	Start(title string, total int) ProgressBar
	// Spinner returns an indeterminate indicator.
	Spinner(title string) Spinner
}

// ProgressBar is a determinate progress indicator.
type ProgressBar interface {
	Increment(n int)
	SetTitle(title string)
	Done()
}

// Spinner is an indeterminate progress indicator.
type Spinner interface {
	SetTitle(title string)
	Stop()
}
