package network

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

// Probe reports the client online when a TCP connection to addr succeeds within timeout.
type Probe struct {
	addr    string
	timeout time.Duration
	dialer  func(ctx context.Context, network, addr string) (net.Conn, error)
	logger  logger.Logger
}

var _ service.Connectivity = (*Probe)(nil)

func NewProbe(addr string, timeout time.Duration, log logger.Logger) *Probe {
	d := &net.Dialer{}
	return &Probe{addr: addr, timeout: timeout, dialer: d.DialContext, logger: log}
}

func (p *Probe) Online(ctx context.Context) bool {
	if p.addr == "" {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dialer(ctx, "tcp", p.addr)
	if err != nil {
		p.logger.Debug("Connectivity probe failed", zap.String("addr", p.addr), zap.Error(err))
		return false
	}
	_ = conn.Close()
	return true
}
