package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"github.com/rgehrsitz/fuyou/internal/calculation"
	"github.com/rgehrsitz/fuyou/internal/config"
	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/logging"
	"github.com/rgehrsitz/fuyou/internal/output"
	"github.com/rgehrsitz/fuyou/internal/store"
	"github.com/rgehrsitz/fuyou/internal/thresholds"
)

const (
	studentInput  = "../testdata/student_2025.yaml"
	thresholdSeed = "../testdata/thresholds_2026.yaml"
)

// PipelineSuite runs input files through the store, the registry, the
// aggregator and every report format
type PipelineSuite struct {
	suite.Suite
	ctx      context.Context
	store    *store.SQLiteStore
	registry *thresholds.Registry
	parser   *config.InputParser
	input    *config.StatusInput
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.ctx = context.Background()
	logger := logging.Discard()

	st, err := store.Open(s.ctx, filepath.Join(s.T().TempDir(), "fuyou.db"), store.WithLogger(logger))
	s.Require().NoError(err)
	s.store = st

	s.registry = thresholds.NewRegistry(
		thresholds.WithStore(st),
		thresholds.WithLogger(logger),
		thresholds.WithMetrics(thresholds.NewMetrics(prometheus.NewRegistry())),
	)

	s.parser = config.NewInputParser()
	s.input, err = s.parser.LoadFromFile(studentInput)
	s.Require().NoError(err)
}

func (s *PipelineSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *PipelineSuite) seed() {
	seed, err := s.parser.LoadSeedFile(thresholdSeed)
	s.Require().NoError(err)
	n, err := s.store.SeedThresholds(s.ctx, seed.Year, seed.ThresholdMap())
	s.Require().NoError(err)
	s.Equal(7, n)
	s.registry.InvalidateCache()
}

func (s *PipelineSuite) aggregate(year int, asOf time.Time) domain.FuyouStatus {
	return calculation.Aggregate(calculation.AggregateInput{
		Profile:    s.input.Profile,
		History:    s.input.Income,
		Year:       year,
		Thresholds: s.registry.ActiveThresholds(s.ctx, year),
		AsOf:       asOf,
	})
}

func (s *PipelineSuite) TestStatusOnBuiltInThresholds() {
	s.Require().NotNil(s.input.AsOf)
	status := s.aggregate(s.input.Year, *s.input.AsOf)

	s.Equal(domain.Yen(490_000), status.TotalIncome)
	s.Equal(5, status.CurrentMonth)
	s.Equal(domain.StudentDependent150, status.PrimaryThreshold)
	s.Require().NotNil(status.Eligibility)
	s.Equal(domain.WallIncomeStudent, status.Eligibility.CurrentWallType)

	primary, ok := status.Primary()
	s.Require().True(ok)
	s.Equal(domain.Yen(1_500_000), primary.Limit)
	s.Equal(domain.Yen(1_010_000), primary.Remaining)
	s.False(primary.IsOverLimit)

	h := s.registry.Health()
	s.Equal(thresholds.SourceFallback, h.Source)
	s.False(h.IsHealthy)
}

func (s *PipelineSuite) TestSeededYearRaisesStudentWall() {
	s.seed()

	asOf := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)
	status := s.aggregate(2026, asOf)

	primary, ok := status.Primary()
	s.Require().True(ok)
	s.Equal(domain.Yen(1_600_000), primary.Limit)
	s.Equal(domain.Yen(1_110_000), primary.Remaining)

	h := s.registry.Health()
	s.True(h.IsHealthy)
	s.Equal(thresholds.SourceDatabase, h.Source)
	s.Equal(2026, h.Year)
}

func (s *PipelineSuite) TestPreviewAndImpactOfSeededYear() {
	s.seed()

	now := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	p := calculation.PreviewYear(s.ctx, s.registry, 2026, now)
	s.Equal(2025, p.BaselineYear)
	s.Require().Len(p.Changes, 1)

	change := p.Changes[0]
	s.Equal(domain.StudentDependent150, change.Key)
	s.Equal(domain.Yen(100_000), change.Difference)

	impact := calculation.AnalyzeThresholdImpact(490_000, change.PreviousYen, change.NewYen)
	s.Equal(domain.ImpactPositive, impact.ImpactType)
	s.Equal(domain.Yen(100_000), impact.ImpactAmount)
}

func (s *PipelineSuite) TestIncomeRoundTripsThroughStore() {
	for _, m := range s.input.Income {
		s.Require().NoError(s.store.SaveMonthlyIncome(s.ctx, s.input.Year, m))
	}
	stored, err := s.store.MonthlyIncome(s.ctx, s.input.Year)
	s.Require().NoError(err)
	s.Require().Len(stored, len(s.input.Income))

	fromFile := calculation.GenerateMonthlyProgress(s.input.Income)
	fromStore := calculation.GenerateMonthlyProgress(stored)
	s.Equal(fromFile, fromStore)
}

func (s *PipelineSuite) TestEveryFormatRenders() {
	status := s.aggregate(s.input.Year, *s.input.AsOf)

	for _, name := range output.AvailableFormatterNames() {
		s.Run(name, func() {
			var buf bytes.Buffer
			s.Require().NoError(output.GenerateReport(&buf, &status, name))
			s.NotEmpty(buf.String())
		})
	}

	var buf bytes.Buffer
	s.Error(output.GenerateReport(&buf, &status, "pdf"))
}
