// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the vaultchat TUI.
//
// This file implements non-blocking toasts. Unlike modal error dialogs,
// toasts appear in the bottom-right corner and auto-dismiss, letting the
// user keep typing while a notice is visible.
package components

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vaultchat/vaultchat/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast (cyan color)
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast (rose/red color)
	ToastKindError
	// ToastKindWarning is a warning toast (amber color)
	ToastKindWarning
	// ToastKindSuccess is a success toast (emerald color)
	ToastKindSuccess
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts (longer to read).
const ErrorToastDuration = 8 * time.Second

// WarningToastDuration is the auto-dismiss duration for warning toasts.
const WarningToastDuration = 6 * time.Second

// =============================================================================
// TOAST
// =============================================================================

// Toast represents a non-blocking notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewErrorToast creates an error toast.
func NewErrorToast(message string) Toast {
	return Toast{
		ID:        generateToastID(),
		Message:   message,
		Kind:      ToastKindError,
		CreatedAt: time.Now(),
		Duration:  ErrorToastDuration,
	}
}

// NewWarningToast creates a warning toast.
func NewWarningToast(message string) Toast {
	return Toast{
		ID:        generateToastID(),
		Message:   message,
		Kind:      ToastKindWarning,
		CreatedAt: time.Now(),
		Duration:  WarningToastDuration,
	}
}

// NewStatusToast creates a status/info toast.
func NewStatusToast(message string) Toast {
	return Toast{
		ID:        generateToastID(),
		Message:   message,
		Kind:      ToastKindStatus,
		CreatedAt: time.Now(),
		Duration:  DefaultToastDuration,
	}
}

// NewSuccessToast creates a success toast.
func NewSuccessToast(message string) Toast {
	return Toast{
		ID:        generateToastID(),
		Message:   message,
		Kind:      ToastKindSuccess,
		CreatedAt: time.Now(),
		Duration:  DefaultToastDuration,
	}
}

// IsExpired returns true if the toast should be dismissed.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager manages multiple toast notifications.
type ToastManager struct {
	toasts    []Toast
	nextID    int
	maxToasts int
	mutex     sync.Mutex
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{
		toasts:    make([]Toast, 0),
		nextID:    1,
		maxToasts: 5,
	}
}

// AddToast adds a new toast to the manager.
func (m *ToastManager) AddToast(toast Toast) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if toast.ID == 0 {
		toast.ID = m.nextID
		m.nextID++
	}

	// Newest first.
	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}

	return toast.ID
}

// AddError is a convenience method to add an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.AddToast(NewErrorToast(message))
}

// AddWarning is a convenience method to add a warning toast.
func (m *ToastManager) AddWarning(message string) int {
	return m.AddToast(NewWarningToast(message))
}

// AddStatus is a convenience method to add a status toast.
func (m *ToastManager) AddStatus(message string) int {
	return m.AddToast(NewStatusToast(message))
}

// TickToasts removes expired toasts and returns the remaining toasts.
func (m *ToastManager) TickToasts() []Toast {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	active := make([]Toast, 0, len(m.toasts))
	for _, toast := range m.toasts {
		if !toast.IsExpired() {
			active = append(active, toast)
		}
	}
	m.toasts = active
	return m.toasts
}

// GetToasts returns a copy of the current toasts.
func (m *ToastManager) GetToasts() []Toast {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result := make([]Toast, len(m.toasts))
	copy(result, m.toasts)
	return result
}

// HasToasts returns true if there are any active toasts.
func (m *ToastManager) HasToasts() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.toasts) > 0
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.toasts = make([]Toast, 0)
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to update toast state.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd returns a command that ticks toasts every 100ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single toast notification.
func RenderToast(toast Toast, theme *styles.Theme, width int) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var accent lipgloss.AdaptiveColor
	var iconStyle lipgloss.Style
	var icon string
	switch toast.Kind {
	case ToastKindError:
		accent = styles.Rose
		iconStyle = theme.ErrorStyle
		icon = "✗"
	case ToastKindWarning:
		accent = styles.Amber
		iconStyle = theme.WarningStyle
		icon = "⚠"
	case ToastKindSuccess:
		accent = styles.Emerald
		iconStyle = theme.SuccessStyle
		icon = "✓"
	default:
		accent = styles.Cyan
		iconStyle = theme.InfoStyle
		icon = "ℹ"
	}

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(maxWidth - 8)

	content := iconStyle.Render(icon+" ") + messageStyle.Render(toast.Message)

	toastStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 2).
		MaxWidth(maxWidth)

	return toastStyle.Render(content)
}

// RenderToastStack renders multiple toasts stacked in the bottom-right corner.
func RenderToastStack(toasts []Toast, theme *styles.Theme, width, height int) string {
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		rendered = append(rendered, RenderToast(toast, theme, width))
	}

	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	positioned := lipgloss.NewStyle().
		MarginRight(2).
		MarginBottom(1).
		Render(stack)

	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, positioned)
	}
	return positioned
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

var toastIDMutex sync.Mutex
var toastIDCounter int

func generateToastID() int {
	toastIDMutex.Lock()
	defer toastIDMutex.Unlock()
	toastIDCounter++
	return toastIDCounter
}
