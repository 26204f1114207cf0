// Package advisor turns a financial profile into categorized,
// prioritized recommendations. The rules are deterministic template
// expansions over numeric thresholds; there is no learned model behind
// them.
package advisor

import "fmt"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Category string

const (
	CategoryEmergency Category = "Emergency Planning"
	CategoryCommittee Category = "Committee Strategy"
	CategorySavings   Category = "Savings Optimization"
	CategoryRisk      Category = "Risk Management"
)

type Profile struct {
	MonthlyIncome   int
	MonthlyExpenses int
	CurrentSavings  int
	DebtAmount      int
	Dependents      int
	Age             int
}

func (p Profile) DisposableIncome() int {
	return p.MonthlyIncome - p.MonthlyExpenses
}

type Recommendation struct {
	Category Category
	Priority Priority
	Message  string
}

// Advise evaluates every rule group against the profile. Rules mirror
// the platform's guidance: a 6-month emergency fund, committees capped
// at 30% of disposable income, 20% target savings rate, and debt bands
// at 20% and 40% of annual income.
func Advise(p Profile) []Recommendation {
	var recs []Recommendation
	recs = append(recs, emergencyAdvice(p))
	recs = append(recs, committeeAdvice(p))
	recs = append(recs, savingsAdvice(p))
	recs = append(recs, riskAdvice(p)...)
	return recs
}

func emergencyAdvice(p Profile) Recommendation {
	target := p.MonthlyExpenses * 6
	if p.CurrentSavings < target {
		return Recommendation{
			Category: CategoryEmergency,
			Priority: PriorityHigh,
			Message: fmt.Sprintf(
				"Build emergency fund: you need Rs. %d more to reach 6 months of expenses (target Rs. %d)",
				target-p.CurrentSavings, target),
		}
	}
	months := 0.0
	if p.MonthlyExpenses > 0 {
		months = float64(p.CurrentSavings) / float64(p.MonthlyExpenses)
	}
	return Recommendation{
		Category: CategoryEmergency,
		Priority: PriorityLow,
		Message: fmt.Sprintf(
			"Your emergency fund of Rs. %d covers %.1f months of expenses", p.CurrentSavings, months),
	}
}

// SafeCommitteeAmount is the largest monthly contribution the advisor
// considers sustainable: 30% of disposable income, never negative.
func SafeCommitteeAmount(p Profile) int {
	amount := int(float64(p.DisposableIncome()) * 0.3)
	if amount < 0 {
		return 0
	}
	return amount
}

func committeeAdvice(p Profile) Recommendation {
	disposable := p.DisposableIncome()
	safe := SafeCommitteeAmount(p)
	switch {
	case disposable < 5000:
		return Recommendation{
			Category: CategoryCommittee,
			Priority: PriorityHigh,
			Message:  "Avoid committees until you increase your disposable income",
		}
	case disposable < 15000:
		return Recommendation{
			Category: CategoryCommittee,
			Priority: PriorityMedium,
			Message: fmt.Sprintf(
				"Start with small committees: maximum Rs. %d/month across 1-2 committees", safe),
		}
	default:
		return Recommendation{
			Category: CategoryCommittee,
			Priority: PriorityLow,
			Message: fmt.Sprintf(
				"You can safely commit Rs. %d/month, diversified across 2-3 committees", safe),
		}
	}
}

func savingsAdvice(p Profile) Recommendation {
	rate := 0.0
	if p.MonthlyIncome > 0 {
		rate = float64(p.DisposableIncome()) / float64(p.MonthlyIncome) * 100
	}
	switch {
	case rate < 10:
		return Recommendation{
			Category: CategorySavings,
			Priority: PriorityHigh,
			Message:  fmt.Sprintf("Low savings rate (%.1f%%): target 20%% of income", rate),
		}
	case rate < 20:
		return Recommendation{
			Category: CategorySavings,
			Priority: PriorityMedium,
			Message:  fmt.Sprintf("Good savings rate (%.1f%%): push towards 20%%", rate),
		}
	default:
		return Recommendation{
			Category: CategorySavings,
			Priority: PriorityLow,
			Message:  fmt.Sprintf("Excellent savings rate (%.1f%%): consider investing the surplus", rate),
		}
	}
}

func riskAdvice(p Profile) []Recommendation {
	var recs []Recommendation

	if p.DebtAmount > 0 && p.MonthlyIncome > 0 {
		ratio := float64(p.DebtAmount) / float64(p.MonthlyIncome*12) * 100
		switch {
		case ratio > 40:
			recs = append(recs, Recommendation{
				Category: CategoryRisk,
				Priority: PriorityHigh,
				Message: fmt.Sprintf(
					"High debt burden (%.1f%% of annual income): prioritize repayment before joining committees", ratio),
			})
		case ratio > 20:
			recs = append(recs, Recommendation{
				Category: CategoryRisk,
				Priority: PriorityMedium,
				Message: fmt.Sprintf(
					"Moderate debt (%.1f%% of annual income): limit committee participation", ratio),
			})
		default:
			recs = append(recs, Recommendation{
				Category: CategoryRisk,
				Priority: PriorityLow,
				Message: fmt.Sprintf(
					"Manageable debt level (%.1f%% of annual income)", ratio),
			})
		}
	}

	switch {
	case p.Age < 30:
		recs = append(recs, Recommendation{
			Category: CategoryRisk,
			Priority: PriorityLow,
			Message:  "Young professional: moderate risk is acceptable while building wealth",
		})
	case p.Age < 50:
		recs = append(recs, Recommendation{
			Category: CategoryRisk,
			Priority: PriorityMedium,
			Message:  "Mid-career: balance growth with stability, mixing short and long committees",
		})
	default:
		recs = append(recs, Recommendation{
			Category: CategoryRisk,
			Priority: PriorityMedium,
			Message:  "Pre-retirement: favour stable, shorter-duration committees",
		})
	}

	if p.Dependents > 0 {
		buffer := p.Dependents * 5000
		recs = append(recs, Recommendation{
			Category: CategoryRisk,
			Priority: PriorityMedium,
			Message: fmt.Sprintf(
				"With %d dependents, keep an additional Rs. %d buffer before committing", p.Dependents, buffer),
		})
	}

	return recs
}
