package oracled

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/GoSim-25-26J-441/routesearch/internal/metrics"
	"github.com/GoSim-25-26J-441/routesearch/internal/oracle/oraclev1"
	"github.com/GoSim-25-26J-441/routesearch/pkg/logger"
)

// sweepInterval is how often idle buckets are evicted
const sweepInterval = time.Minute

// RateLimiter is a per-client token bucket. A nil *RateLimiter allows everything.
type RateLimiter struct {
	perSecond int
	buckets   map[string]*tokenBucket
	lastSweep time.Time
	mu        sync.Mutex
	now       func() time.Time
}

type tokenBucket struct {
	tokens     int
	lastRefill time.Time
}

// NewRateLimiter allows perSecond evaluations per client per second.
// It returns nil, meaning unlimited, when perSecond <= 0.
func NewRateLimiter(perSecond int) *RateLimiter {
	if perSecond <= 0 {
		return nil
	}
	return &RateLimiter{
		perSecond: perSecond,
		buckets:   make(map[string]*tokenBucket),
		now:       time.Now,
	}
}

// Allow takes one token from key's bucket
func (l *RateLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &tokenBucket{tokens: l.perSecond, lastRefill: now}
		l.buckets[key] = bucket
	}

	refill := int(now.Sub(bucket.lastRefill).Seconds() * float64(l.perSecond))
	if refill > 0 {
		bucket.tokens = min(bucket.tokens+refill, l.perSecond)
		bucket.lastRefill = now
	}

	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}
	return false
}

// sweep drops buckets idle for a second or more. Those have refilled to
// capacity and are equivalent to a fresh bucket. Caller holds l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	if l.lastSweep.IsZero() {
		l.lastSweep = now
		return
	}
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastRefill) >= time.Second {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// WithRateLimit limits POST /calculate_distance per client address
func (s *HTTPServer) WithRateLimit(l *RateLimiter) *HTTPServer {
	s.limiter = l
	return s
}

func (s *HTTPServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == oraclev1.PathCalculateDistance && !s.limiter.Allow(clientHost(r.RemoteAddr)) {
			metrics.RecordOracleRejected(TransportHTTP, "rate_limited")
			logger.Debug("request rate limited", "transport", TransportHTTP, "client", r.RemoteAddr)
			s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimitInterceptor applies l to DistanceOracle/Evaluate calls only, so
// health checks are never throttled.
func RateLimitInterceptor(l *RateLimiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if info.FullMethod == oraclev1.EvaluateFullMethod {
			key := ""
			if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
				key = clientHost(p.Addr.String())
			}
			if !l.Allow(key) {
				metrics.RecordOracleRejected(TransportGRPC, "rate_limited")
				return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
			}
		}
		return handler(ctx, req)
	}
}

func clientHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
