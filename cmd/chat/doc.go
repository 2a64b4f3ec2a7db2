// Package `chat` implements terminal client application for chat over TCP.
//
// Connect to a chat server:
//
//	chat [host] port
//
// Host defaults to 127.0.0.1. With -l the client hosts the server on host:port
// itself and joins it. Press Enter to send a line, Up/Down (Ctrl-P/Ctrl-N) to scroll
// the conversation, Ctrl-D on empty line to leave the chat.
//
// The terminal is owned by the chat screen, so logs are only written to the file
// given with -log.
package main
