package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/fuyou/internal/config"
	"github.com/rgehrsitz/fuyou/internal/domain"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)

type cli struct {
	t  *testing.T
	db string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv(config.EnvPrefix+"_THRESHOLDS_FALLBACK", "")
	t.Setenv("THRESHOLD_FALLBACK", "")
	return &cli{t: t, db: filepath.Join(t.TempDir(), "fuyou.db")}
}

// exec runs one invocation against the test database
func (c *cli) exec(args ...string) (string, error) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--db", c.db, "--log-level", "error"}, args...)
	err := runApp(context.Background(), &app{now: func() time.Time { return testNow }}, full, &stdout, &stderr)
	return stdout.String(), err
}

func (c *cli) mustExec(args ...string) string {
	c.t.Helper()
	out, err := c.exec(args...)
	require.NoError(c.t, err, "fuyou %s", strings.Join(args, " "))
	return out
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd(&app{now: time.Now})
	assert.Equal(t, "fuyou", root.Use)
	assert.True(t, root.SilenceUsage)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"status", "eligibility", "impact", "thresholds", "income", "onboard", "version"} {
		assert.Contains(t, names, want)
	}

	thresholds, _, err := root.Find([]string{"thresholds"})
	require.NoError(t, err)
	var subs []string
	for _, c := range thresholds.Commands() {
		subs = append(subs, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "health", "set", "seed", "activate", "invalidate", "preview", "years"}, subs)
}

func TestVersion(t *testing.T) {
	out := newCLI(t).mustExec("version")
	assert.Contains(t, out, "fuyou dev")
}

const studentInput = `year: 2025
as_of: 2025-03-20T00:00:00Z
profile:
  name: テスト
  birth_date: 2004-05-10T00:00:00Z
  is_student: true
  insurance_status: parent
income:
  - month: 1
    income: 100000
  - month: 2
    income: 120000
  - month: 3
    income: 110000
`

func TestStatusFromInputFile(t *testing.T) {
	c := newCLI(t)
	path := writeTestFile(t, "input.yaml", studentInput)

	out := c.mustExec("status", path, "-f", "json")

	var got domain.FuyouStatus
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, domain.Yen(330_000), got.TotalIncome)
	assert.Equal(t, domain.StudentDependent150, got.PrimaryThreshold)
	assert.Equal(t, 3, got.CurrentMonth)
	assert.Len(t, got.MonthlyData, 3)
}

func TestStatusConsole(t *testing.T) {
	c := newCLI(t)
	path := writeTestFile(t, "input.yaml", studentInput)

	out := c.mustExec("status", path)
	assert.Contains(t, out, "330,000円")
}

func TestStatusFromDatabase(t *testing.T) {
	c := newCLI(t)
	c.mustExec("income", "add", "--year", "2025", "--month", "4", "--income", "90000")
	path := writeTestFile(t, "input.yaml", studentInput)

	out := c.mustExec("status", path, "--from-db", "-f", "json")

	var got domain.FuyouStatus
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.Yen(420_000), got.TotalIncome)
	assert.Len(t, got.MonthlyData, 4)
}

func TestStatusRejectsInvalidInput(t *testing.T) {
	c := newCLI(t)
	path := writeTestFile(t, "bad.yaml", "year: 2025\nincome: [{month: 13, income: 1}]\n")

	_, err := c.exec("status", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

type thresholdList struct {
	Year       int                `json:"year"`
	Thresholds []domain.Threshold `json:"thresholds"`
}

func TestThresholdsListFallback(t *testing.T) {
	c := newCLI(t)
	out := c.mustExec("thresholds", "list", "--year", "2025", "-f", "json")

	var got thresholdList
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2025, got.Year)
	assert.Len(t, got.Thresholds, len(domain.KnownThresholdKeys()))

	out = c.mustExec("thresholds", "list", "--year", "2025", "--kind", "social", "-f", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotEmpty(t, got.Thresholds)
	for _, th := range got.Thresholds {
		assert.Equal(t, domain.KindSocial, th.Kind)
	}

	_, err := c.exec("thresholds", "list", "--kind", "pension")
	assert.Error(t, err)
}

func TestThresholdsSetThenList(t *testing.T) {
	c := newCLI(t)
	out := c.mustExec("thresholds", "set", "INCOME_TAX_103", "--year", "2025", "--yen", "1230000")
	assert.Contains(t, out, "INCOME_TAX_103")

	out = c.mustExec("thresholds", "list", "--year", "2025", "-f", "json")
	var got thresholdList
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Thresholds, 1)
	assert.Equal(t, domain.IncomeTax103, got.Thresholds[0].Key)
	assert.Equal(t, domain.Yen(1_230_000), got.Thresholds[0].Yen)
	assert.Equal(t, domain.KindTax, got.Thresholds[0].Kind)
	assert.NotEmpty(t, got.Thresholds[0].Label)

	out = c.mustExec("thresholds", "health", "--year", "2025", "-f", "json")
	var h struct {
		IsHealthy bool   `json:"isHealthy"`
		Source    string `json:"source"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &h))
	assert.True(t, h.IsHealthy)
	assert.Equal(t, "database", h.Source)
}

func TestThresholdsSetRejectsUnknownWithoutKind(t *testing.T) {
	c := newCLI(t)
	_, err := c.exec("thresholds", "set", "LOCAL_WALL", "--year", "2025", "--yen", "800000")
	assert.Error(t, err)

	c.mustExec("thresholds", "set", "LOCAL_WALL", "--year", "2025", "--yen", "800000", "--kind", "social", "--label", "地域の壁")
}

func TestThresholdsHealthWithoutStoreRows(t *testing.T) {
	c := newCLI(t)
	out := c.mustExec("thresholds", "health", "--year", "2030", "-f", "json")

	var h struct {
		IsHealthy bool   `json:"isHealthy"`
		Resolved  bool   `json:"resolved"`
		Source    string `json:"source"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &h))
	assert.False(t, h.IsHealthy)
	assert.True(t, h.Resolved)
	assert.Equal(t, "fallback", h.Source)
}

const seed2026 = `year: 2026
thresholds:
  - key: INCOME_TAX_103
    kind: tax
    yen: 1230000
    label: 所得税の壁
  - key: SOCIAL_INSURANCE_130
    kind: social
    yen: 1300000
    label: 社会保険の壁
`

func TestThresholdsSeedActivateYearsPreview(t *testing.T) {
	c := newCLI(t)
	path := writeTestFile(t, "seed.yaml", seed2026)

	out := c.mustExec("thresholds", "seed", path)
	assert.Contains(t, out, "seeded 2 thresholds for 2026")

	out = c.mustExec("thresholds", "years")
	assert.Equal(t, "2026\n", out)

	out = c.mustExec("thresholds", "preview", "--year", "2026", "-f", "json")
	var p struct {
		Year         int `json:"year"`
		BaselineYear int `json:"baselineYear"`
		Changes      []struct {
			Key string `json:"key"`
		} `json:"changes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, 2026, p.Year)
	assert.Equal(t, 2025, p.BaselineYear)
	require.Len(t, p.Changes, 1)
	assert.Equal(t, "INCOME_TAX_103", p.Changes[0].Key)

	out = c.mustExec("thresholds", "activate", "--year", "2026", "SOCIAL_INSURANCE_130")
	assert.Contains(t, out, "activated 1 thresholds for 2026")

	out = c.mustExec("thresholds", "list", "--year", "2026", "-f", "json")
	var got thresholdList
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Thresholds, 1)
	assert.Equal(t, domain.SocialInsurance130, got.Thresholds[0].Key)

	out = c.mustExec("thresholds", "invalidate")
	assert.Contains(t, out, "invalidated")
}

func TestThresholdsSeedRejectsInvalidFile(t *testing.T) {
	c := newCLI(t)
	path := writeTestFile(t, "seed.yaml", "year: 2026\nthresholds: []\n")
	_, err := c.exec("thresholds", "seed", path)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestIncomeCommands(t *testing.T) {
	c := newCLI(t)
	c.mustExec("income", "add", "--year", "2025", "--month", "1", "--income", "80000")
	c.mustExec("income", "add", "--year", "2025", "--month", "2", "--income", "95000", "--method", "bank_api")
	out := c.mustExec("income", "add", "--year", "2025", "--month", "2", "--income", "96000", "--method", "bank_api")
	assert.Contains(t, out, "96,000円")

	out = c.mustExec("income", "list", "--year", "2025", "-f", "json")
	var progress []domain.MonthlyProgress
	require.NoError(t, json.Unmarshal([]byte(out), &progress))
	require.Len(t, progress, 2)
	assert.Equal(t, domain.Yen(176_000), progress[1].CumulativeIncome)
	assert.Equal(t, domain.InputBankAPI, progress[1].InputMethod)

	out = c.mustExec("income", "list", "--year", "2025")
	assert.Contains(t, out, "176,000")

	c.mustExec("income", "delete", "--year", "2025", "--month", "1")
	out = c.mustExec("income", "list", "--year", "2025", "-f", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &progress))
	require.Len(t, progress, 1)
	assert.Equal(t, 2, progress[0].Month)

	_, err := c.exec("income", "add", "--year", "2025", "--month", "13", "--income", "1")
	assert.Error(t, err)
}

func TestEligibility(t *testing.T) {
	c := newCLI(t)
	out := c.mustExec("eligibility", "--birth-date", "2004-05-10", "--student", "--at", "2025-06-15", "-f", "json")

	var v struct {
		Result    domain.EligibilityResult `json:"result"`
		Breakdown *json.RawMessage         `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, domain.WallIncomeStudent, v.Result.CurrentWallType)
	assert.False(t, v.Result.IsIndependentMode)
	assert.Nil(t, v.Breakdown)

	out = c.mustExec("eligibility", "--birth-date", "2004-05-10", "--insurance", "self", "--income", "500000", "-f", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.True(t, v.Result.IsIndependentMode)
	assert.NotNil(t, v.Breakdown)
}

func TestEligibilityErrors(t *testing.T) {
	c := newCLI(t)
	_, err := c.exec("eligibility")
	assert.Error(t, err, "birth date is required")

	_, err = c.exec("eligibility", "--birth-date", "2004/05/10")
	assert.ErrorContains(t, err, "expected YYYY-MM-DD")

	_, err = c.exec("eligibility", "--birth-date", "2004-05-10", "--insurance", "spouse")
	assert.ErrorContains(t, err, "invalid insurance status")
}

func TestImpact(t *testing.T) {
	c := newCLI(t)
	out := c.mustExec("impact", "--income", "1100000", "--old", "1030000", "--new", "1230000", "-f", "json")

	var v struct {
		Impact domain.ThresholdImpact `json:"impact"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, domain.ImpactPositive, v.Impact.ImpactType)
	assert.Equal(t, domain.Yen(200_000), v.Impact.ImpactAmount)

	_, err := c.exec("impact", "--income", "1")
	assert.ErrorContains(t, err, "--key")
}

func TestImpactByKey(t *testing.T) {
	c := newCLI(t)
	path := writeTestFile(t, "seed.yaml", seed2026)
	c.mustExec("thresholds", "seed", path)

	out := c.mustExec("impact", "--key", "INCOME_TAX_103", "--to-year", "2026", "--income", "1100000", "-f", "json")
	var v struct {
		OldThreshold domain.Yen `json:"oldThreshold"`
		NewThreshold domain.Yen `json:"newThreshold"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, domain.Yen(1_030_000), v.OldThreshold)
	assert.Equal(t, domain.Yen(1_230_000), v.NewThreshold)

	_, err := c.exec("impact", "--key", "NO_SUCH_WALL")
	assert.ErrorContains(t, err, "not registered")
}

func TestUnknownFlag(t *testing.T) {
	_, err := newCLI(t).exec("status", "--no-such-flag")
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := newCLI(t).exec("--log-level", "loud", "version")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestWriteStatusInput(t *testing.T) {
	dob := time.Date(2005, 4, 2, 0, 0, 0, 0, time.UTC)
	yes := true
	answers := domain.OnboardingAnswers{
		BirthDate:       &dob,
		Student:         &yes,
		InsuranceStatus: domain.InsuranceParent,
	}

	var buf bytes.Buffer
	require.NoError(t, writeStatusInput(&buf, answers, "花子", testNow))

	in, err := config.NewInputParser().ParseStatusInput(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2025, in.Year)
	assert.Equal(t, "花子", in.Profile.Name)
	assert.True(t, in.Profile.IsStudent)
	assert.Equal(t, domain.InsuranceParent, in.Profile.InsuranceStatus)
	require.NotNil(t, in.Profile.BirthDate)
	assert.True(t, dob.Equal(*in.Profile.BirthDate))
	assert.Empty(t, in.Income)
}

func TestMergeIncome(t *testing.T) {
	recorded := []domain.MonthlyIncome{
		{Month: 3, Income: 30, InputMethod: domain.InputBankAPI},
		{Month: 1, Income: 10, InputMethod: domain.InputBankAPI},
	}
	file := []domain.MonthlyIncome{
		{Month: 3, Income: 33, InputMethod: domain.InputManual},
		{Month: 2, Income: 20, InputMethod: domain.InputManual},
	}

	got := mergeIncome(recorded, file)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].Month, got[1].Month, got[2].Month})
	assert.Equal(t, domain.Yen(33), got[2].Income)
}

func TestReportExtension(t *testing.T) {
	assert.Equal(t, "csv", reportExtension("detailed-csv"))
	assert.Equal(t, "html", reportExtension("html"))
	assert.Equal(t, "txt", reportExtension("console-lite"))
}
