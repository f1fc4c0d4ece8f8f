package usecase

import (
	"fmt"
	"math"
	"sort"

	"RiskKit/internal/domain/models"
	"RiskKit/internal/services/risk"
	"RiskKit/pkg/util"
)

// BuildColumnReport computes every figure of one column. It never fails;
// degenerate inputs surface as NaN figures.
func BuildColumnReport(s risk.Series, p models.ReportParams) models.ColumnReport {
	jb, pValue := risk.JarqueBera(s)
	frame := risk.Drawdown(s)
	maxDD, _, maxDDLabel := frame.MaxDrawdown()

	rep := models.ColumnReport{
		Name:              s.Name,
		Observations:      s.Len(),
		AnnualizedReturn:  models.Float(risk.AnnualizeRets(s, p.PeriodsPerYear)),
		AnnualizedVol:     models.Float(risk.AnnualizeVol(s, p.PeriodsPerYear)),
		SharpeRatio:       models.Float(risk.SharpeRatio(s, p.RiskFreeRate, p.PeriodsPerYear)),
		Skewness:          models.Float(risk.Skewness(s)),
		Kurtosis:          models.Float(risk.Kurtosis(s)),
		JarqueBera:        models.Float(jb),
		JarqueBeraPValue:  models.Float(pValue),
		IsNormal:          risk.IsNormal(s, p.NormalityLevel),
		Semideviation:     models.Float(risk.Semideviation(s)),
		Semideviation3:    models.Float(risk.Semideviation3(s)),
		VaRHistoric:       models.Float(risk.VaRHistoric(s, p.Level)),
		CVaRHistoric:      models.Float(risk.CVaRHistoric(s, p.Level)),
		VaRGaussian:       models.Float(risk.VaRGaussian(s, p.Level, false)),
		VaRCornishFisher:  models.Float(risk.VaRGaussian(s, p.Level, true)),
		MaxDrawdown:       models.Float(maxDD),
		MaxDrawdownPeriod: maxDDLabel,
	}
	if n := s.Len(); n > 0 {
		rep.FirstPeriod = s.Label(0)
		rep.LastPeriod = s.Label(n - 1)
	}
	return rep
}

// ValidateParams rejects parameters no statistic can be computed with.
func ValidateParams(p models.ReportParams) error {
	switch {
	case math.IsNaN(p.Level) || p.Level <= 0 || p.Level >= 100:
		return fmt.Errorf("%w: level must be in (0, 100), got %v", ErrInvalidParams, p.Level)
	case math.IsNaN(p.PeriodsPerYear) || p.PeriodsPerYear <= 0:
		return fmt.Errorf("%w: periods_per_year must be positive, got %v", ErrInvalidParams, p.PeriodsPerYear)
	case math.IsNaN(p.NormalityLevel) || p.NormalityLevel <= 0 || p.NormalityLevel >= 1:
		return fmt.Errorf("%w: normality_level must be in (0, 1), got %v", ErrInvalidParams, p.NormalityLevel)
	case math.IsNaN(p.RiskFreeRate) || p.RiskFreeRate <= -1:
		return fmt.Errorf("%w: riskfree_rate must be greater than -1, got %v", ErrInvalidParams, p.RiskFreeRate)
	}
	return nil
}

// TableFromObservations builds one column per requested name, in request
// order, each sorted by period. Names without observations are reported
// as missing.
func TableFromObservations(names []string, obs []models.Observation) (risk.Table, []string) {
	byName := make(map[string][]models.Observation, len(names))
	for _, o := range obs {
		byName[o.Series] = append(byName[o.Series], o)
	}

	t := risk.Table{Columns: make([]risk.Series, 0, len(names))}
	var missing []string
	for _, name := range names {
		rows := byName[name]
		if len(rows) == 0 {
			missing = append(missing, name)
			continue
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Period.Before(rows[j].Period) })
		s := risk.Series{
			Name:   name,
			Index:  make([]string, len(rows)),
			Values: make([]float64, len(rows)),
		}
		for i, o := range rows {
			s.Index[i] = util.FormatPeriod(o.Period)
			s.Values[i] = o.Return
		}
		t.Columns = append(t.Columns, s)
	}
	return t, missing
}
