package keepwarm

import (
	"context"
	"net/http"
	"time"

	"github.com/jayant413/contrashutter-backend/pkg/client"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
)

// Pinger issues a GET against an endpoint on a fixed interval so that hosts which
// idle out free-tier instances keep the service resident.
type Pinger struct {
	url      string
	interval time.Duration
	http     *client.HttpClient
	log      *logger.Logger
}

func NewPinger(url string, interval time.Duration, log *logger.Logger) *Pinger {
	return &Pinger{
		url:      url,
		interval: interval,
		http:     client.NewHttpClient("", client.WithTimeout(30*time.Second)),
		log:      log,
	}
}

// Run blocks until ctx is done. Failed pings are logged and never stop the loop.
func (p *Pinger) Run(ctx context.Context) {
	p.log.Info("Keep-warm pinger started", "url", p.url, "interval", p.interval)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Keep-warm pinger stopped")
			return
		case <-ticker.C:
			p.ping(ctx)
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	start := time.Now()
	resp, err := p.http.Do(ctx, http.MethodGet, p.url, nil, nil)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Error("Keep-warm call failed", "url", p.url, "error", err)
		}
		return
	}
	p.log.Info("Keep-warm call completed",
		"url", p.url,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
