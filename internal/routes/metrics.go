package routes

import "github.com/haguru/signup/internal/interfaces"

// RegisterMetrics registers every metric the handlers and the rate limiter report.
func RegisterMetrics(m interfaces.Metrics) {
	m.RegisterCounter(CheckIDRequestsTotal, CheckIDRequestsTotalHelp)
	m.RegisterCounterVec(CheckIDResultsTotal, CheckIDResultsTotalHelp, []string{LabelOutcome})
	m.RegisterHistogram(CheckIDDurationSeconds, CheckIDDurationSecondsHelp, CheckIDDurationSecondsBuckets)

	m.RegisterCounter(SignupRequestsTotal, SignupRequestsTotalHelp)
	m.RegisterCounter(SignupSuccessTotal, SignupSuccessTotalHelp)
	m.RegisterCounter(SignupErrorsTotal, SignupErrorsTotalHelp)
	m.RegisterHistogram(SignupDurationSeconds, SignupDurationSecondsHelp, SignupDurationSecondsBuckets)

	m.RegisterCounter(LoginRequestsTotal, LoginRequestsTotalHelp)
	m.RegisterCounter(LoginSuccessTotal, LoginSuccessTotalHelp)
	m.RegisterCounter(LoginFailedTotal, LoginFailedTotalHelp)
	m.RegisterHistogram(LoginDurationSeconds, LoginDurationSecondsHelp, LoginDurationSecondsBuckets)

	m.RegisterCounter(WithdrawRequestsTotal, WithdrawRequestsTotalHelp)
	m.RegisterCounter(WithdrawSuccessTotal, WithdrawSuccessTotalHelp)
	m.RegisterCounter(WithdrawFailedTotal, WithdrawFailedTotalHelp)

	m.RegisterGauge(ActiveSessions, ActiveSessionsHelp)
}
