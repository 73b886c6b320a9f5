// filepath: internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UploadsTotal tracks the total number of files uploaded.
var UploadsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "filedrop_uploads_total",
		Help: "Total number of files uploaded",
	},
)

// DownloadsTotal tracks the total number of file downloads.
var DownloadsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "filedrop_downloads_total",
		Help: "Total number of file downloads served",
	},
)

// URLRedirectsTotal tracks the total number of short URL redirects served.
var URLRedirectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "filedrop_url_redirects_total",
		Help: "Total number of short URL redirects served",
	},
)

// StatsRequestsTotal tracks the total number of usage report computations.
var StatsRequestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "filedrop_stats_requests_total",
		Help: "Total number of usage reports computed",
	},
)

// ExpiredFilesSweptTotal tracks the total number of expired files removed
// by the background sweeper.
var ExpiredFilesSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "filedrop_expired_files_swept_total",
		Help: "Total number of expired files removed",
	},
)
