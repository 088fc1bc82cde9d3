package tui

import "github.com/mbellec/bocage/internal/engine"

// snapshotMsg delivers a fresh snapshot after a load or mutation.
type snapshotMsg struct {
	snap *engine.Snapshot
}

// errorMsg surfaces a failed load or mutation without leaving the dashboard.
type errorMsg struct {
	err error
}

// noticeMsg shows a transient confirmation in the footer.
type noticeMsg struct {
	text string
}
