// Package metrics defines and registers all custom Prometheus metrics for
// the user access API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_access"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts signed tokens handed out.
// Label:
//   - kind: "login" (credential issuer) or "manual" (generate-token endpoint)
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued, by kind.",
	},
	[]string{"kind"},
)

// AuthDeniedTotal counts requests rejected by the access guard.
// Label:
//   - reason: "missing_token", "invalid_token", "expired_token", "forbidden"
var AuthDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denied_total",
		Help:      "Total number of requests denied by authentication or authorization.",
	},
	[]string{"reason"},
)

// UsersCreatedTotal counts created users.
// Label:
//   - role: the role assigned at creation
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by role.",
	},
	[]string{"role"},
)

// UsersDeletedTotal counts deleted users.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted.",
	},
)

// IdentityCacheTotal counts identity cache lookups performed by the access
// guard's user-load path.
// Label:
//   - result: "hit" or "miss"
var IdentityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_cache_total",
		Help:      "Total number of identity cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)
