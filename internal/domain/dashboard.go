package domain

// DashboardFields mirrors the on-chain dashboard object.
type DashboardFields struct {
	ID               UID        `json:"id"`
	VerifiedProfiles []ObjectID `json:"verified_profiles"`
	Creator          Address    `json:"creator"`
}

// Dashboard is the directory of verified profiles.
type Dashboard struct {
	ProfileIDs []ObjectID `json:"profileIds"`
	Creator    Address    `json:"creator"`
}

func (f DashboardFields) ToDashboard() Dashboard {
	ids := f.VerifiedProfiles
	if ids == nil {
		ids = []ObjectID{}
	}
	return Dashboard{ProfileIDs: ids, Creator: f.Creator}
}
