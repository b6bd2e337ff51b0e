package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type statusCodeCapturingResponseWriter struct {
	http.ResponseWriter
	wroteHeader bool
	statusCode  int
}

func (l *statusCodeCapturingResponseWriter) Write(p []byte) (n int, err error) {
	l.wroteHeader = true
	return l.ResponseWriter.Write(p)
}

func (l *statusCodeCapturingResponseWriter) WriteHeader(code int) {
	if !l.wroteHeader {
		l.statusCode = code
		l.wroteHeader = true
	}
	l.ResponseWriter.WriteHeader(code)
}

// loggedHandle is a route handler that receives the request-scoped log entry.
type loggedHandle func(*logrus.Entry, http.ResponseWriter, *http.Request, httprouter.Params)

func loggingWrapper(upstream loggedHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		l, w, f := logFor(r, w)
		defer f()
		upstream(l, w, r, p)
	}
}

func simpleLoggingWrapper(upstream httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		_, w, f := logFor(r, w)
		defer f()
		upstream(w, r, p)
	}
}

func logFor(r *http.Request, w http.ResponseWriter) (l *logrus.Entry, _ http.ResponseWriter, toDefer func()) {
	l = logrus.WithFields(logrus.Fields{"UID": requestUID(), "path": r.URL.Path, "method": r.Method})
	loggingWriter := &statusCodeCapturingResponseWriter{w, false, http.StatusOK}
	start := time.Now()
	return l, loggingWriter, func() {
		l = l.WithFields(logrus.Fields{
			"status":   loggingWriter.statusCode,
			"duration": time.Since(start).String(),
		})
		logFunc := l.Debug
		if loggingWriter.statusCode > 499 {
			logFunc = l.Error
		}
		logFunc("responded")
	}
}

// requestUID returns a time-based identifier, falling back to a random one.
func requestUID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type instrumentationWrapper struct {
	*httprouter.Router
	metrics *prometheus.HistogramVec
}

func (iw *instrumentationWrapper) wrap(method, path string, handler httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		capturingWriter := &statusCodeCapturingResponseWriter{w, false, http.StatusOK}
		start := time.Now()
		handler(capturingWriter, r, p)
		iw.metrics.WithLabelValues(method, path, strconv.Itoa(capturingWriter.statusCode)).Observe(time.Since(start).Seconds())
	}
}

func (iw *instrumentationWrapper) GET(path string, handle httprouter.Handle) {
	iw.Router.GET(path, iw.wrap(http.MethodGet, path, handle))
}

var instrumentationMetrics = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "rusalad",
	Name:      "http_server_request_duration_seconds",
	Help:      "http request duration in seconds",
	Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
}, []string{"method", "path", "status"},
)

func init() {
	// Registered once per process so tests can build many routers.
	prometheus.MustRegister(instrumentationMetrics)
}

func newInstrumentedRouter() *instrumentationWrapper {
	return &instrumentationWrapper{
		Router:  httprouter.New(),
		metrics: instrumentationMetrics,
	}
}
