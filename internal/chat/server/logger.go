//go:build unix

package server

import (
	"fmt"
	"net"
)

func (s *Server) logInfo(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg, args...)
}

func (s *Server) logDebug(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, args...)
}

func (s *Server) logError(msg string, err error, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg, append([]any{"error", err}, args...)...)
}

// formatAddress - formats specified network address for logging purposes.
func formatAddress(a net.Addr) string {
	if a == nil {
		return "unknown"
	}
	return fmt.Sprintf("%s %s", a.Network(), a.String())
}
