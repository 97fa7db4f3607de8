package types

import "time"

// ProductivitySample is one excavator productivity measurement taken by
// a supervisor in the field. Duration and Productivity are derived from
// the entered fields by Derive and are never entered directly.
type ProductivitySample struct {
	Supervisor     string    `json:"supervisor"`
	BadgeNumber    string    `json:"badgeNumber"`
	ExcavatorID    string    `json:"noExcavator"`
	Operator       string    `json:"operator"`
	Material       string    `json:"material"`
	Timestamp      time.Time `json:"timestamp"`
	Trips          int       `json:"trips"`
	HMStart        float64   `json:"hmStart"`
	HMEnd          float64   `json:"hmEnd"`
	BucketCapacity float64   `json:"bucketCapacity"`
	Duration       float64   `json:"duration"`
	Productivity   float64   `json:"productivity"`
}

// Derive validates the entered fields and computes Duration (hours of
// hour-meter movement) and Productivity (BCM per hour). A sample that
// fails Derive must be rejected, not stored.
func (s *ProductivitySample) Derive() error {
	if s.Trips <= 0 {
		return ErrInvalidTripCount
	}
	if s.BucketCapacity <= 0 {
		return ErrInvalidCapacity
	}
	if s.HMEnd <= s.HMStart {
		return ErrInvalidHourMeter
	}
	s.Duration = s.HMEnd - s.HMStart
	s.Productivity = float64(s.Trips) * s.BucketCapacity / s.Duration
	return nil
}

// MatchFactorSample is one truck/loader match-factor measurement.
// Cycle times are in minutes. MatchFactor is derived by Derive.
type MatchFactorSample struct {
	Supervisor  string    `json:"supervisor"`
	BadgeNumber string    `json:"badgeNumber"`
	ExcavatorID string    `json:"noExcavator"`
	Operator    string    `json:"operator"`
	Material    string    `json:"material"`
	Timestamp   time.Time `json:"timestamp"`
	HaulerCount int       `json:"haulerCount"`
	LoaderCycle float64   `json:"loaderCycle"`
	HaulerCycle float64   `json:"haulerCycle"`
	MatchFactor float64   `json:"matchFactor"`
}

// Derive validates the entered fields and computes the match factor:
// haulerCount * loaderCycle / haulerCycle.
func (m *MatchFactorSample) Derive() error {
	if m.HaulerCount <= 0 {
		return ErrInvalidHaulerCount
	}
	if m.LoaderCycle <= 0 || m.HaulerCycle <= 0 {
		return ErrInvalidCycleTime
	}
	m.MatchFactor = float64(m.HaulerCount) * m.LoaderCycle / m.HaulerCycle
	return nil
}
