package csvio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/thesisflow/core"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Topic ID", "topic_id"},
		{"  Maximum students per topic ", "maximum_students_per_topic"},
		{"desired_minimum_by_department", "desired_minimum_by_department"},
		{"Plan thesis?", "plan_thesis"},
	}
	for _, tc := range tests {
		if got := normalizeHeader(tc.in); got != tc.want {
			t.Fatalf("normalizeHeader(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitPipe(t *testing.T) {
	if got := splitPipe(" t1 | t2 ||t3 "); len(got) != 3 || got[0] != "t1" || got[2] != "t3" {
		t.Fatalf("splitPipe = %v", got)
	}
	if got := splitPipe("  "); got != nil {
		t.Fatalf("splitPipe(blank) = %v, want nil", got)
	}
}

const capacitiesCSV = `Topic ID,Coach ID,Maximum students per topic,Maximum students per coach,Department ID,Desired minimum by department
t1,c1,2,3,d1,1
t2,c1,1,3,d1,1
t3,c2,2,2,d2,
`

func TestReadCapacities(t *testing.T) {
	topics, coaches, departments, err := ReadCapacities(strings.NewReader(capacitiesCSV))
	require.NoError(t, err)

	require.Len(t, topics, 3)
	require.Equal(t, core.Topic{ID: "t2", CoachID: "c1", DepartmentID: "d1", Cap: 1}, topics["t2"])
	require.Equal(t, core.Coach{ID: "c1", DepartmentID: "d1", Cap: 3}, coaches["c1"])
	require.Equal(t, int64(1), departments["d1"].DesiredMin)
	require.Zero(t, departments["d2"].DesiredMin)
}

func TestReadCapacities_BOM(t *testing.T) {
	topics, _, _, err := ReadCapacities(strings.NewReader("\ufeff" + capacitiesCSV))
	require.NoError(t, err)
	require.Contains(t, topics, "t1")
}

func TestReadCapacities_Inconsistent(t *testing.T) {
	tests := []struct{ name, csv string }{
		{"topic repeats with different coach",
			"topic_id,coach_id,maximum_students_per_topic,maximum_students_per_coach,department_id,desired_minimum_by_department\nt1,c1,2,3,d1,0\nt1,c2,2,3,d1,0\n"},
		{"coach cap disagrees",
			"topic_id,coach_id,maximum_students_per_topic,maximum_students_per_coach,department_id,desired_minimum_by_department\nt1,c1,2,3,d1,0\nt2,c1,2,4,d1,0\n"},
		{"coach in two departments",
			"topic_id,coach_id,maximum_students_per_topic,maximum_students_per_coach,department_id,desired_minimum_by_department\nt1,c1,2,3,d1,0\nt2,c1,2,3,d2,0\n"},
		{"department minimum disagrees",
			"topic_id,coach_id,maximum_students_per_topic,maximum_students_per_coach,department_id,desired_minimum_by_department\nt1,c1,2,3,d1,1\nt2,c2,2,3,d1,2\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := ReadCapacities(strings.NewReader(tc.csv))
			require.ErrorIs(t, err, ErrInconsistentRow)
		})
	}
}

func TestReadCapacities_MissingField(t *testing.T) {
	csv := "topic_id,coach_id,maximum_students_per_topic,maximum_students_per_coach,department_id,desired_minimum_by_department\nt1,,2,3,d1,0\n"
	_, _, _, err := ReadCapacities(strings.NewReader(csv))
	require.ErrorIs(t, err, ErrMissingField)
}

func TestReadCapacities_Empty(t *testing.T) {
	_, _, _, err := ReadCapacities(strings.NewReader("topic_id,coach_id\n"))
	require.ErrorIs(t, err, ErrEmptyInput)
}

const studentsCSV = `Student ID,Plan thesis,Pref1,Pref2,Pref3,Pref4,Pref5,Tier1,Tier2,Tier3,Banned,Forced topic
s1,Yes,t1,t2,,,,,,,t9,
s2,no,,,,,,t1|t2,t3,,,
s3,YES,,,,,,,,,,t5
`

func TestReadStudents(t *testing.T) {
	students, err := ReadStudents(strings.NewReader(studentsCSV))
	require.NoError(t, err)
	require.Len(t, students, 3)

	s1 := students["s1"]
	require.True(t, s1.Plan)
	require.Equal(t, []string{"t1", "t2"}, s1.Ranks)
	require.Contains(t, s1.Banned, "t9")

	s2 := students["s2"]
	require.False(t, s2.Plan, `only a literal "yes" plans a thesis`)
	require.Equal(t, []string{"t1", "t2"}, s2.Tiers[1])
	require.Equal(t, []string{"t3"}, s2.Tiers[2])

	require.Equal(t, "t5", students["s3"].ForcedTopic)
}

func TestReadStudents_SkipsBlankID(t *testing.T) {
	students, err := ReadStudents(strings.NewReader("student_id,plan_thesis\n,yes\ns1,yes\n"))
	require.NoError(t, err)
	require.Len(t, students, 1)
}

func TestReadAllocationCSV(t *testing.T) {
	csv := "student,assigned_topic,assigned_coach,department_id,preference_rank,effective_cost,via_topic_overflow,via_coach_overflow\n" +
		"s1,t1,c1,d1,10,0,false,false\n" +
		"s2,t1,c1,d1,999,200,True,false\n"
	rows, err := ReadAllocationCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, core.Assignment{
		StudentID: "s2", TopicID: "t1", CoachID: "c1", DepartmentID: "d1",
		RankCode: 999, EffectiveCost: 200, ViaTopicOverflow: true,
	}, rows[1])
}

func TestReadOverrides(t *testing.T) {
	csv := "student_id,topic_id,cost\ns1,t1,5\ns2,t2,abc\ns1,t1,7\n"
	overrides, err := ReadOverrides(strings.NewReader(csv))
	require.NoError(t, err)
	// The bad-cost row drops out; the duplicate keeps the later cost.
	require.Equal(t, []core.Override{{StudentID: "s1", TopicID: "t1", Cost: 7}}, overrides)
}
