package simulate

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/katalvlaran/thesisflow/core"
)

// Sentinel errors returned by the generator.
var (
	// ErrBadShape indicates non-positive entity counts.
	ErrBadShape = errors.New("simulate: student, topic, coach and department counts must be positive")

	// ErrShapeMismatch indicates fewer topics than coaches or fewer
	// coaches than departments; the round-robin spread would leave owners
	// without entities.
	ErrShapeMismatch = errors.New("simulate: need topics ≥ coaches ≥ departments")
)

// GenOptions shapes a synthetic instance.
type GenOptions struct {
	Students    int
	Topics      int
	Coaches     int
	Departments int

	// Seed fixes the generator; equal options yield equal instances.
	Seed int64

	// RanksPerStudent caps the ranked list length (bounded by core.MaxRanks).
	// Zero means core.MaxRanks.
	RanksPerStudent int

	// TierRate / BanRate are per-student probabilities of carrying a tier
	// group / a banned topic. Zero disables the feature.
	TierRate float64
	BanRate  float64

	// TopicCap / CoachCap bound every topic / coach. Zero defaults to
	// 2 and 4.
	TopicCap int64
	CoachCap int64

	// DeptMinEvery gives every n-th department a desired minimum of
	// Students/Departments rounded down (at least 1). Zero disables
	// minimums.
	DeptMinEvery int
}

// DefaultGenOptions returns a small, solvable shape.
func DefaultGenOptions(seed int64) GenOptions {
	return GenOptions{
		Students:    30,
		Topics:      12,
		Coaches:     6,
		Departments: 3,
		Seed:        seed,
		TierRate:    0.2,
		BanRate:     0.1,
	}
}

// Generate builds a deterministic synthetic instance.
func Generate(opts GenOptions) (*core.Instance, error) {
	if opts.Students <= 0 || opts.Topics <= 0 || opts.Coaches <= 0 || opts.Departments <= 0 {
		return nil, ErrBadShape
	}
	if opts.Topics < opts.Coaches || opts.Coaches < opts.Departments {
		return nil, ErrShapeMismatch
	}
	if opts.RanksPerStudent <= 0 || opts.RanksPerStudent > core.MaxRanks {
		opts.RanksPerStudent = core.MaxRanks
	}
	if opts.TopicCap <= 0 {
		opts.TopicCap = 2
	}
	if opts.CoachCap <= 0 {
		opts.CoachCap = 4
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	in := &core.Instance{
		Students:    make(map[string]core.Student, opts.Students),
		Topics:      make(map[string]core.Topic, opts.Topics),
		Coaches:     make(map[string]core.Coach, opts.Coaches),
		Departments: make(map[string]core.Department, opts.Departments),
	}

	deptIDs := make([]string, opts.Departments)
	for i := range deptIDs {
		did := fmt.Sprintf("d%02d", i+1)
		deptIDs[i] = did
		var min int64
		if opts.DeptMinEvery > 0 && i%opts.DeptMinEvery == 0 {
			min = int64(opts.Students / opts.Departments)
			if min < 1 {
				min = 1
			}
		}
		in.Departments[did] = core.Department{ID: did, DesiredMin: min}
	}

	coachIDs := make([]string, opts.Coaches)
	for i := range coachIDs {
		cid := fmt.Sprintf("c%02d", i+1)
		coachIDs[i] = cid
		in.Coaches[cid] = core.Coach{
			ID:           cid,
			DepartmentID: deptIDs[i%opts.Departments],
			Cap:          opts.CoachCap,
		}
	}

	topicIDs := make([]string, opts.Topics)
	for i := range topicIDs {
		tid := fmt.Sprintf("t%03d", i+1)
		topicIDs[i] = tid
		coach := in.Coaches[coachIDs[i%opts.Coaches]]
		in.Topics[tid] = core.Topic{
			ID:           tid,
			CoachID:      coach.ID,
			DepartmentID: coach.DepartmentID,
			Cap:          opts.TopicCap,
		}
	}

	for i := 0; i < opts.Students; i++ {
		sid := fmt.Sprintf("s%04d", i+1)
		perm := rng.Perm(opts.Topics)

		nRanks := 1 + rng.Intn(opts.RanksPerStudent)
		ranks := make([]string, 0, nRanks)
		for _, ti := range perm[:nRanks] {
			ranks = append(ranks, topicIDs[ti])
		}

		s := core.Student{ID: sid, Plan: true, Ranks: ranks}
		used := nRanks

		if opts.TierRate > 0 && rng.Float64() < opts.TierRate && used < opts.Topics {
			tier := 1 + rng.Intn(3)
			s.Tiers = map[int][]string{tier: {topicIDs[perm[used]]}}
			used++
		}
		if opts.BanRate > 0 && rng.Float64() < opts.BanRate && used < opts.Topics {
			s.Banned = map[string]struct{}{topicIDs[perm[used]]: {}}
		}

		in.Students[sid] = s
	}

	return in, nil
}
