// Package panel is the persistent input surface: a small terminal UI with a
// multi-line prompt box, plus a headless JSON-lines bridge speaking the same
// messages for hosts that draw their own UI.
//
// Both front ends hand submitted text to a Sender, normally a
// *dispatch.Pipeline, and render its progress: a busy indicator while the
// prompt is delivered, an error line on failure, and focus back in the input
// box once the channel has had time to take the text.
package panel
