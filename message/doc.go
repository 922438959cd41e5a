// Package message defines the messages exchanged between the input panel
// and the host.
//
// Every message travels as a JSON object whose "command" field names its
// kind:
//
//	{"command":"userQuery","text":"explain this function"}
//	{"command":"loadingState","loading":true}
//	{"command":"error","message":"An error occurred: ..."}
//	{"command":"assistantMessage","text":"..."}
//
// Use Encode and Decode to move between the wire form and the Go types.
package message
