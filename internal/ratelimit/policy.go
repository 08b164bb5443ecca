package ratelimit

import "time"

// Policy names a rate-limit budget class.
type Policy string

const (
	PolicyGeneral            Policy = "general"
	PolicySensitive          Policy = "sensitive"
	PolicyLogin              Policy = "login"
	PolicyUpload             Policy = "upload"
	PolicyRegister           Policy = "register"
	PolicyResendVerification Policy = "resend-verification"
	PolicyResendReset        Policy = "resend-reset"
)

// Quota is the window and request budget for one policy.
type Quota struct {
	Window time.Duration
	Limit  int
}

// Policies maps each policy to its effective quota.
type Policies map[Policy]Quota

// DefaultPolicies returns the quota table for the given mode. Production
// tightens the general budget and stretches the login window.
func DefaultPolicies(production bool) Policies {
	p := Policies{
		PolicyGeneral:            {Window: 60 * time.Second, Limit: 100},
		PolicySensitive:          {Window: 60 * time.Second, Limit: 30},
		PolicyLogin:              {Window: 300 * time.Second, Limit: 5},
		PolicyUpload:             {Window: time.Hour, Limit: 20},
		PolicyRegister:           {Window: time.Hour, Limit: 5},
		PolicyResendVerification: {Window: 24 * time.Hour, Limit: 3},
		PolicyResendReset:        {Window: 24 * time.Hour, Limit: 3},
	}
	if production {
		p[PolicyGeneral] = Quota{Window: 60 * time.Second, Limit: 60}
		p[PolicySensitive] = Quota{Window: 60 * time.Second, Limit: 20}
		p[PolicyLogin] = Quota{Window: 900 * time.Second, Limit: 3}
		p[PolicyUpload] = Quota{Window: time.Hour, Limit: 10}
	}
	return p
}

// Resolve returns the quota for a policy, falling back to the general quota
// for unknown policy names.
func (p Policies) Resolve(policy Policy) Quota {
	if q, ok := p[policy]; ok {
		return q
	}
	return p[PolicyGeneral]
}
