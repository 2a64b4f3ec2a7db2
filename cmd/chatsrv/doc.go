// Package `chatsrv` implements server application for chat over TCP.
//
// Every line received from a client is relayed to all connected clients,
// so any line-oriented tool (chat client, netcat, telnet) may join the chat.
//
// To compile chat server locally, run from package directory:
//
//	go install .
//
// Or quickly launch server with command:
//
//	go run . -port 20000
package main
