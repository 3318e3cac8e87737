package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "learnquest"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limiter_requests_total",
			Help:      "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limiter_blocked_total",
			Help:      "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)

	authEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Account events by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	lessonsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progression",
			Name:      "lessons_completed_total",
			Help:      "First-time lesson completions.",
		},
	)

	skillsUnlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progression",
			Name:      "skills_unlocked_total",
			Help:      "Skill nodes unlocked.",
		},
	)

	spMovements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "economy",
			Name:      "sp_total",
			Help:      "Skill points earned or spent, by ledger type.",
		},
		[]string{"type"},
	)

	themesPurchased = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shop",
			Name:      "themes_purchased_total",
			Help:      "Theme purchases by theme id.",
		},
		[]string{"theme_id"},
	)

	planGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "generations_total",
			Help:      "Learning plans served, by source (ai or fallback) and reason.",
		},
		[]string{"source", "reason"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		RLRequests,
		RLBlocked,
		authEvents,
		lessonsCompleted,
		skillsUnlocked,
		spMovements,
		themesPurchased,
		planGenerations,
	)
}

// RecordAuth counts an account event; outcome is "ok" or an error code.
func RecordAuth(action, outcome string) {
	authEvents.WithLabelValues(action, outcome).Inc()
}

func RecordLessonCompleted(spGained int64) {
	lessonsCompleted.Inc()
	if spGained > 0 {
		spMovements.WithLabelValues("lesson_reward").Add(float64(spGained))
	}
}

func RecordSkillUnlocked(cost int64) {
	skillsUnlocked.Inc()
	spMovements.WithLabelValues("skill_unlock").Add(float64(cost))
}

func RecordThemePurchased(themeID string, cost int64) {
	themesPurchased.WithLabelValues(themeID).Inc()
	spMovements.WithLabelValues("theme_purchase").Add(float64(cost))
}

// RecordPlan counts a served plan. reason is empty for AI plans.
func RecordPlan(source, reason string) {
	planGenerations.WithLabelValues(source, reason).Inc()
}
