package cache

import "time"

// Policy names a kind of cached data and how long it lives.
type Policy struct {
	Name string
	TTL  time.Duration
}

// Policies holds the TTL policy for every kind of cached data.
type Policies struct {
	Profile    Policy
	MovieList  Policy
	Search     Policy
	Comparison Policy
	Name       Policy
	Health     Policy
	Fallback   Policy
}

// DefaultPolicies returns the standard TTLs.
func DefaultPolicies() Policies {
	return Policies{
		Profile:    Policy{Name: "profile", TTL: 30 * time.Minute},
		MovieList:  Policy{Name: "movie_list", TTL: 10 * time.Minute},
		Search:     Policy{Name: "search", TTL: 5 * time.Minute},
		Comparison: Policy{Name: "comparison", TTL: 15 * time.Minute},
		Name:       Policy{Name: "name", TTL: 30 * time.Minute},
		Health:     Policy{Name: "health", TTL: time.Minute},
		Fallback:   Policy{Name: "fallback", TTL: 24 * time.Hour},
	}
}

// TTLOverrides replaces selected TTLs; zero fields keep the default.
type TTLOverrides struct {
	Profile    time.Duration
	MovieList  time.Duration
	Search     time.Duration
	Comparison time.Duration
	Name       time.Duration
	Health     time.Duration
	Fallback   time.Duration
}

// Apply returns p with non-zero overrides applied.
func (o TTLOverrides) Apply(p Policies) Policies {
	set := func(pol *Policy, ttl time.Duration) {
		if ttl > 0 {
			pol.TTL = ttl
		}
	}
	set(&p.Profile, o.Profile)
	set(&p.MovieList, o.MovieList)
	set(&p.Search, o.Search)
	set(&p.Comparison, o.Comparison)
	set(&p.Name, o.Name)
	set(&p.Health, o.Health)
	set(&p.Fallback, o.Fallback)
	return p
}
