// Package ui contains the Bubble Tea program that renders the terminal
// surface of the caption manager.
//
// Message flow:
//   - The session pushes outbound protocol messages (bridge.UpdatePair,
//     bridge.PairList, bridge.TokenCount, bridge.Notice) through the bridge;
//     ProgramSurface forwards them into the running program with
//     tea.Program.Send.
//   - Model.Update routes every tea.Msg through a typed handler registry so
//     each message type is handled by one focused function.
//   - User intent never touches the session directly. Key presses become
//     inbound protocol messages handed to a Sender (the bridge), which queues
//     them for the session goroutine.
//
// Modes:
//   - browse: paging through pairs with the navigation keys.
//   - edit: a bubbles textarea bound to the current caption. Every change is
//     streamed as updateCaptionLocally plus countTokens; leaving the editor
//     saves a modified caption.
//   - jump: a fuzzy filtered list of base names (internal/ui/state.Level)
//     driven by a bubbles textinput.
package ui
