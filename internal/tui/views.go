package tui

import "daylist/internal/tui/messages"

// Re-export types from messages package for convenience
type TasksChangedMsg = messages.TasksChangedMsg
type ActionFailedMsg = messages.ActionFailedMsg
type ToastMsg = messages.ToastMsg
type UndoRequestMsg = messages.UndoRequestMsg
type RefreshMsg = messages.RefreshMsg
