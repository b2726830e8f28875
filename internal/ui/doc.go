// Package ui contains the Bubble Tea program that presents the launcher in a
// terminal.
//
// Message flow:
//   - The program is the state owner. app.Start receives a programExecutor,
//     so timers, toast expiry and client requests all arrive as runMsg values
//     and execute inside Model.Update.
//   - Update routes each tea.Msg through a typed handler registry. Key
//     presses are converted to actions.KeyEvent and handed to
//     app.Context.HandleKey, which owns routing (action shortcuts, the action
//     menu, the dropdown, query editing and list movement).
//   - Visibility changes reach the model through its terminalSurface; the
//     next update retitles the terminal and redraws.
//
// Rendering:
//   - View reads the active stack entry: breadcrumb and dropdown on the
//     first row, the query prompt with a blinking caret, then either the
//     list or the open action menu, and finally the action bar with the
//     current toast and the primary action.
//   - A hidden launcher renders a single placeholder line.
package ui
