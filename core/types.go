package core

import "errors"

// Sentinel errors returned by entity validation.
var (
	// ErrEmptyID indicates an entity with a missing identifier.
	ErrEmptyID = errors.New("core: empty identifier")

	// ErrNonPositiveCap indicates a topic or coach capacity ≤ 0.
	ErrNonPositiveCap = errors.New("core: capacity must be positive")

	// ErrNegativeMin indicates a department desired minimum < 0.
	ErrNegativeMin = errors.New("core: desired minimum must be non-negative")

	// ErrForcedBanned indicates a student whose forced topic is also banned.
	ErrForcedBanned = errors.New("core: forced topic is in the banned set")

	// ErrTooManyRanks indicates a student with more than MaxRanks ranked preferences.
	ErrTooManyRanks = errors.New("core: more than five ranked preferences")
)

// MaxRanks is the maximum length of a student's ranked preference list.
const MaxRanks = 5

// Rank codes reported per assignment. Values are non-colliding on purpose:
// tiers occupy 0..2, ranked choices 10..14, so a flat histogram over the
// output column separates every satisfaction class.
const (
	RankForced   = -1
	RankTier1    = 0
	RankTier2    = 1
	RankTier3    = 2
	RankFirst    = 10
	RankSecond   = 11
	RankThird    = 12
	RankFourth   = 13
	RankFifth    = 14
	RankUnranked = 999
)

// Student is one thesis candidate with their stated preference data.
type Student struct {
	// ID is the canonical student identifier.
	ID string

	// Plan reports whether the student wants a thesis this run.
	// Students with Plan == false receive no cost edges and no assignment.
	Plan bool

	// Ranks holds up to MaxRanks topic IDs in stated order (index 0 = 1st choice).
	Ranks []string

	// Tiers maps tier number (1..3) to the topic IDs in that tier group.
	Tiers map[int][]string

	// Banned holds topic IDs the student may never be assigned to.
	Banned map[string]struct{}

	// ForcedTopic, when non-empty, pins the student to that topic ahead of
	// any preference-derived cost. Must not appear in Banned.
	ForcedTopic string
}

// Validate checks the student's internal consistency.
// It does not check that referenced topics exist; that is cross-entity
// validation and lives in alloc.ValidateInstance.
func (s Student) Validate() error {
	if s.ID == "" {
		return ErrEmptyID
	}
	if len(s.Ranks) > MaxRanks {
		return ErrTooManyRanks
	}
	if s.ForcedTopic != "" {
		if _, banned := s.Banned[s.ForcedTopic]; banned {
			return ErrForcedBanned
		}
	}

	return nil
}

// IsBanned reports whether topicID is in the student's banned set.
func (s Student) IsBanned(topicID string) bool {
	_, ok := s.Banned[topicID]

	return ok
}

// RankOf returns the 1-based rank position of topicID in Ranks, or 0 if absent.
func (s Student) RankOf(topicID string) int {
	for i, t := range s.Ranks {
		if t == topicID {
			return i + 1
		}
	}

	return 0
}

// TierOf returns the tier number (1..3) containing topicID, or 0 if absent.
// Lower tiers win when a topic is listed in several.
func (s Student) TierOf(topicID string) int {
	for tier := 1; tier <= 3; tier++ {
		for _, t := range s.Tiers[tier] {
			if t == topicID {
				return tier
			}
		}
	}

	return 0
}

// Topic is one thesis topic owned by a coach inside a department.
type Topic struct {
	ID           string
	CoachID      string
	DepartmentID string

	// Cap is the maximum number of students on this topic before overflow.
	Cap int64
}

// Validate checks the topic's internal consistency.
func (t Topic) Validate() error {
	if t.ID == "" || t.CoachID == "" || t.DepartmentID == "" {
		return ErrEmptyID
	}
	if t.Cap <= 0 {
		return ErrNonPositiveCap
	}

	return nil
}

// Coach aggregates capacity across every topic the coach owns.
type Coach struct {
	ID           string
	DepartmentID string

	// Cap is the maximum aggregate number of students across the coach's topics.
	Cap int64
}

// Validate checks the coach's internal consistency.
func (c Coach) Validate() error {
	if c.ID == "" || c.DepartmentID == "" {
		return ErrEmptyID
	}
	if c.Cap <= 0 {
		return ErrNonPositiveCap
	}

	return nil
}

// Department carries the desired minimum total students across its topics.
type Department struct {
	ID string

	// DesiredMin is the department's desired student count; 0 means no minimum.
	DesiredMin int64
}

// Validate checks the department's internal consistency.
func (d Department) Validate() error {
	if d.ID == "" {
		return ErrEmptyID
	}
	if d.DesiredMin < 0 {
		return ErrNegativeMin
	}

	return nil
}

// Override replaces the computed cost for one (student, topic) pair.
// Precedence sits above tiers and ranks but below a forced assignment.
type Override struct {
	StudentID string
	TopicID   string
	Cost      int64
}

// Assignment is one solved row: which topic a student got and how.
type Assignment struct {
	StudentID    string
	TopicID      string
	CoachID      string
	DepartmentID string

	// RankCode classifies the match; see the Rank* constants.
	RankCode int

	// EffectiveCost is the cost the solver paid for this edge.
	EffectiveCost int64

	// ViaTopicOverflow / ViaCoachOverflow report whether the assigned topic
	// or coach exceeded its capacity in this solution.
	ViaTopicOverflow bool
	ViaCoachOverflow bool

	// Forced reports an administrator-mandated assignment.
	Forced bool
}

// Instance bundles one immutable problem snapshot.
type Instance struct {
	Students    map[string]Student
	Topics      map[string]Topic
	Coaches     map[string]Coach
	Departments map[string]Department
	Overrides   []Override
}

// Planning returns the number of students that want a thesis.
func (in *Instance) Planning() int {
	n := 0
	for _, s := range in.Students {
		if s.Plan {
			n++
		}
	}

	return n
}
