package score

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/clauselens/clauselens/pkg/models"
)

// Rating bands on the 0-10 scale
const (
	RatingVeryFavorable = "Very Favorable"
	RatingFavorable     = "Favorable"
	RatingNeutral       = "Neutral"
	RatingRisky         = "Risky"
	RatingVeryRisky     = "Very Risky"
)

// Level bands on average severity
const (
	LevelNone   = "None"
	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

const defaultMatchScore = 3

// ScoreContract aggregates risk and benefit matches into a weighted 0-10
// rating. Pure function of the two match sets; the breakpoints are part of
// the scoring contract and must not drift.
func ScoreContract(risks, goodPoints models.MatchSet) models.ScoreRecord {
	riskScores := collectScores(risks)
	benefitScores := collectScores(goodPoints)

	record := models.ScoreRecord{
		RiskCount:         len(riskScores),
		BenefitCount:      len(benefitScores),
		TotalRiskScore:    sumInt(riskScores),
		TotalBenefitScore: sumInt(benefitScores),
	}

	if record.RiskCount == 0 && record.BenefitCount == 0 {
		record.Rating = RatingNeutral
		record.ScoreOutOfTen = 5
		record.RiskLevel = LevelNone
		record.BenefitLevel = LevelNone
		return record
	}

	var avgRisk, avgBenefit float64
	if record.RiskCount > 0 {
		avgRisk = stat.Mean(riskScores, nil)
	}
	if record.BenefitCount > 0 {
		avgBenefit = stat.Mean(benefitScores, nil)
	}

	// Benefits pull the neutral baseline of 5 up by at most 3 points, risks
	// pull it down by at most 3.
	raw := 5 + (avgBenefit/5)*3 - (avgRisk/5)*3
	record.ScoreOutOfTen = math.Round(math.Max(0, math.Min(10, raw))*10) / 10

	switch {
	case record.ScoreOutOfTen >= 8:
		record.Rating = RatingVeryFavorable
	case record.ScoreOutOfTen >= 6:
		record.Rating = RatingFavorable
	case record.ScoreOutOfTen >= 4:
		record.Rating = RatingNeutral
	case record.ScoreOutOfTen >= 2:
		record.Rating = RatingRisky
	default:
		record.Rating = RatingVeryRisky
	}

	record.RiskLevel = severityLevel(avgRisk)
	record.BenefitLevel = severityLevel(avgBenefit)
	return record
}

func severityLevel(avg float64) string {
	switch {
	case avg >= 4:
		return LevelHigh
	case avg >= 2.5:
		return LevelMedium
	default:
		return LevelLow
	}
}

func collectScores(set models.MatchSet) []float64 {
	var scores []float64
	for _, matches := range set {
		for _, match := range matches {
			s := match.Score
			if s <= 0 {
				s = defaultMatchScore
			}
			scores = append(scores, float64(s))
		}
	}
	return scores
}

func sumInt(scores []float64) int {
	total := 0
	for _, s := range scores {
		total += int(s)
	}
	return total
}
